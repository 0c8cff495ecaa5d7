package permissions

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cryptadb/crypta/internal/domain"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Source yields the caller's grants for one request. Every failure mode
// degrades to zero grants, which resolves to deny-all downstream: the
// permission pipeline fails closed, never open.
type Source interface {
	Grants(r *http.Request) []domain.Grant
}

// HeaderSource reads a JSON grant array the gateway placed in a request
// header.
type HeaderSource struct {
	header string
	logger *zap.Logger
}

func NewHeaderSource(header string, logger *zap.Logger) *HeaderSource {
	return &HeaderSource{header: header, logger: logger}
}

func (s *HeaderSource) Grants(r *http.Request) []domain.Grant {
	raw := r.Header.Get(s.header)
	if raw == "" {
		return nil
	}
	var grants []domain.Grant
	if err := json.Unmarshal([]byte(raw), &grants); err != nil {
		s.logger.Warn("failed to decode grants header", zap.Error(err))
		return nil
	}
	return grants
}

// TokenSource extracts grants from a claim in the bearer token. The
// gateway has already authenticated the caller, so the signature is not
// re-verified here; the token is treated as trusted transport for the
// claim payload.
type TokenSource struct {
	claim  string
	logger *zap.Logger
}

func NewTokenSource(claim string, logger *zap.Logger) *TokenSource {
	return &TokenSource{claim: claim, logger: logger}
}

func (s *TokenSource) Grants(r *http.Request) []domain.Grant {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil
	}
	tokenString := strings.TrimPrefix(auth, "Bearer ")

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		s.logger.Warn("failed to decode access token", zap.Error(err))
		return nil
	}
	rawClaim, ok := claims[s.claim]
	if !ok {
		return nil
	}

	// Re-encode the claim value so it passes through Grant's tolerant
	// JSON decoding.
	buf, err := json.Marshal(rawClaim)
	if err != nil {
		s.logger.Warn("failed to re-encode grant claim", zap.Error(err))
		return nil
	}
	var grants []domain.Grant
	if err := json.Unmarshal(buf, &grants); err != nil {
		s.logger.Warn("grant claim has unexpected shape", zap.Error(err))
		return nil
	}
	return grants
}

// RemoteSource fetches the caller's grants from the authorization service,
// forwarding the bearer token. An unreachable collaborator yields zero
// grants.
type RemoteSource struct {
	client *resty.Client
	logger *zap.Logger
}

func NewRemoteSource(client *resty.Client, logger *zap.Logger) *RemoteSource {
	return &RemoteSource{client: client, logger: logger}
}

func (s *RemoteSource) Grants(r *http.Request) []domain.Grant {
	var payload struct {
		QueryPermissions []domain.Grant `json:"queryPermissions"`
	}
	resp, err := s.client.R().
		SetContext(r.Context()).
		SetHeader("Authorization", r.Header.Get("Authorization")).
		SetResult(&payload).
		Get("/api/v1/query-permissions")
	if err != nil {
		s.logger.Warn("grant service unreachable", zap.Error(err))
		return nil
	}
	if resp.IsError() {
		s.logger.Warn("grant service returned error", zap.Int("status", resp.StatusCode()))
		return nil
	}
	return payload.QueryPermissions
}

// Chain tries each source in order and returns the first non-empty grant
// list. Header first, then token claim, then the remote service.
type Chain struct {
	sources []Source
}

func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

func (c *Chain) Grants(r *http.Request) []domain.Grant {
	for _, s := range c.sources {
		if grants := s.Grants(r); len(grants) > 0 {
			return grants
		}
	}
	return nil
}
