package v1

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/model"
	"github.com/guanbeimark-eng/toothpaste-market-analysis/internal/service/analysis"
)

const uploadTTL = 30 * time.Minute

// uploadSession 一次上传的解析结果以及（分析后的）完整分析，
// 在内存里保留一段时间供预览、覆盖重算和导出使用
type uploadSession struct {
	fileName  string
	tables    []*model.RawTable
	analyses  []*analysis.TableAnalysis
	expiresAt time.Time
}

type uploadStore struct {
	mu    sync.Mutex
	items map[string]*uploadSession
}

func newUploadStore() *uploadStore {
	return &uploadStore{
		items: make(map[string]*uploadSession),
	}
}

func (s *uploadStore) put(fileName string, tables []*model.RawTable) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	token = newRandomToken(24)
	s.items[token] = &uploadSession{
		fileName:  fileName,
		tables:    tables,
		expiresAt: time.Now().Add(uploadTTL),
	}
	return token
}

func (s *uploadStore) get(token string) (*uploadSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	v, ok := s.items[token]
	if !ok {
		return nil, false
	}
	if time.Now().After(v.expiresAt) {
		delete(s.items, token)
		return nil, false
	}
	return v, true
}

// setAnalyses 记录本次上传最近一次的分析结果并刷新过期时间
func (s *uploadStore) setAnalyses(token string, analyses []*analysis.TableAnalysis) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items[token]
	if !ok {
		return false
	}
	v.analyses = analyses
	v.expiresAt = time.Now().Add(uploadTTL)
	return true
}

func (s *uploadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
