package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/teste-tivit/secure-api/internal/core/domain"
	"github.com/teste-tivit/secure-api/internal/core/ports"
)

const cacheTTL = 30 * time.Second

// ExternalDataService fetches payloads from the downstream fake API, stores
// them, and serves repeats from a short-lived cache.
type ExternalDataService struct {
	client ports.ExternalClient
	repo   ports.ExternalDataRepository
	cache  ports.ResponseCache
	log    zerolog.Logger
}

// NewExternalDataService wires client, store and cache. cache may be nil, in
// which case every fetch goes downstream.
func NewExternalDataService(client ports.ExternalClient, repo ports.ExternalDataRepository, cache ports.ResponseCache, log zerolog.Logger) *ExternalDataService {
	return &ExternalDataService{client: client, repo: repo, cache: cache, log: log}
}

// FetchAndStore retrieves endpoint ("health", "user" or "admin") from the
// downstream service, persists the payload, and returns it. Cache hits skip
// both the downstream call and the store.
func (s *ExternalDataService) FetchAndStore(ctx context.Context, endpoint string) (*ports.FetchResult, error) {
	key := "extapi:" + endpoint

	if s.cache != nil {
		payload, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("endpoint", endpoint).Msg("response cache read failed")
		} else if ok {
			return &ports.FetchResult{Data: payload, StatusCode: 200, Cached: true}, nil
		}
	}

	result, err := s.client.Get(ctx, endpoint)
	if err != nil {
		// Failed fetches are captured too; the stored record is the audit
		// trail of every downstream exchange, not just the successful ones.
		s.log.Warn().Err(err).Str("endpoint", endpoint).Msg("downstream fetch failed")
		result = failureCapture(err)
	}

	id, err := s.repo.Save(ctx, &domain.ExternalData{
		Source:     endpoint,
		Payload:    result.Data,
		StatusCode: result.StatusCode,
		FetchedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("store %s payload: %w", endpoint, err)
	}

	if s.cache != nil && result.StatusCode == 200 {
		if err := s.cache.Set(ctx, key, result.Data, cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("endpoint", endpoint).Msg("response cache write failed")
		}
	}

	return &ports.FetchResult{Data: result.Data, StatusCode: result.StatusCode, StoredID: id}, nil
}

// failureCapture builds the record persisted when the downstream exchange
// itself failed, mirroring the shape the client produces for transport
// failures.
func failureCapture(err error) *ports.ExternalResult {
	payload, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		payload = json.RawMessage(`{"error":"request error"}`)
	}
	return &ports.ExternalResult{Data: payload, StatusCode: 500}
}

// Recent returns up to limit stored downstream records, newest first.
func (s *ExternalDataService) Recent(ctx context.Context, limit int) ([]domain.ExternalData, error) {
	records, err := s.repo.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list stored records: %w", err)
	}
	return records, nil
}

// NotifyToken posts freshly issued token metadata to the downstream service
// and records the exchange. Failures are logged and swallowed: a downstream
// outage must not block logins.
func (s *ExternalDataService) NotifyToken(ctx context.Context, notification domain.TokenNotification) {
	result, err := s.client.PostToken(ctx, notification)
	if err != nil {
		s.log.Warn().Err(err).Str("username", notification.Username).Msg("token notification failed")
		return
	}

	record := struct {
		Request  domain.TokenNotification `json:"request"`
		Response json.RawMessage          `json:"response"`
	}{Request: notification, Response: result.Data}

	payload, err := json.Marshal(record)
	if err != nil {
		s.log.Warn().Err(err).Msg("token notification record marshal failed")
		return
	}

	if _, err := s.repo.Save(ctx, &domain.ExternalData{
		Source:     "token",
		Payload:    payload,
		StatusCode: result.StatusCode,
		FetchedAt:  time.Now().UTC(),
	}); err != nil {
		s.log.Warn().Err(err).Msg("token notification record store failed")
	}
}
