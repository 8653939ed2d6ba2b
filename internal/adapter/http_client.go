package adapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/mlevkov/go-vault-client/internal/logger"
	"github.com/mlevkov/go-vault-client/models"
)

// HTTPClientConfig holds the settings of the outbound HTTP transport.
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpServerAdapter struct {
	client *resty.Client
	log    *logger.Logger
}

// NewHTTPServerAdapter builds the production [ServerAdapter] over REST.
func NewHTTPServerAdapter(cfg HTTPClientConfig, log *logger.Logger) ServerAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://vault.example.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpServerAdapter{client: cli, log: log}
}

type iterationsResponse struct {
	Iterations int `json:"iterations"`
}

func (h *httpServerAdapter) RequestIterations(ctx context.Context, email string) (int, error) {
	resp, err := h.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email}).
		Post("/api/login/iterations")
	if err != nil {
		return 0, fmt.Errorf("iterations request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return 0, err
	}

	var ir iterationsResponse
	if err = json.Unmarshal(resp.Body(), &ir); err != nil {
		return 0, fmt.Errorf("decode iterations response: %w", err)
	}
	if ir.Iterations < 1 {
		return 0, fmt.Errorf("server reported non-positive iteration count %d", ir.Iterations)
	}

	return ir.Iterations, nil
}

type loginResponse struct {
	Token               string `json:"token"`
	EncryptedPrivateKey string `json:"encrypted_private_key"`
	Trusted             bool   `json:"trusted"`
}

func (h *httpServerAdapter) Login(ctx context.Context, req LoginRequest) (models.Session, error) {
	resp, err := h.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/login")
	if err != nil {
		return models.Session{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}

	var lr loginResponse
	if err = json.Unmarshal(resp.Body(), &lr); err != nil {
		return models.Session{}, fmt.Errorf("decode login response: %w", err)
	}

	var privKey []byte
	if lr.EncryptedPrivateKey != "" {
		privKey, err = base64.StdEncoding.DecodeString(lr.EncryptedPrivateKey)
		if err != nil {
			return models.Session{}, fmt.Errorf("decode encrypted private key: %w", err)
		}
	}

	return models.Session{
		Token:               lr.Token,
		Username:            req.Email,
		Iterations:          req.Iterations,
		EncryptedPrivateKey: privKey,
		Trusted:             lr.Trusted,
	}, nil
}

func (h *httpServerAdapter) FetchBlob(ctx context.Context, token string) ([]byte, error) {
	resp, err := h.authedRequest(ctx, token).Get("/api/vault")
	if err != nil {
		return nil, fmt.Errorf("fetch blob request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	// The vault arrives base64-wrapped for transport.
	blob, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(resp.Body())))
	if err != nil {
		return nil, fmt.Errorf("decode blob body: %w", err)
	}

	h.log.Debug().Int("bytes", len(blob)).Msg("vault blob downloaded")
	return blob, nil
}

func (h *httpServerAdapter) FetchAttachment(ctx context.Context, token, storageKey string) ([]byte, error) {
	resp, err := h.authedRequest(ctx, token).
		SetPathParam("key", storageKey).
		Get("/api/attachment/{key}")
	if err != nil {
		return nil, fmt.Errorf("fetch attachment request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	body, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(resp.Body())))
	if err != nil {
		return nil, fmt.Errorf("decode attachment body: %w", err)
	}
	return body, nil
}

func (h *httpServerAdapter) Logout(ctx context.Context, token string) error {
	resp, err := h.authedRequest(ctx, token).Post("/api/logout")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) request(ctx context.Context) *resty.Request {
	return h.client.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString())
}

func (h *httpServerAdapter) authedRequest(ctx context.Context, token string) *resty.Request {
	req := h.request(ctx)
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
