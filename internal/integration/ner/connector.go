package ner

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	retry "github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/medlane/prediag-backend/internal/config"
	pkghttp "github.com/medlane/prediag-backend/pkg/http"
	"go.uber.org/zap"
)

// Connector talks to the external medical entity recognition service.
type Connector struct {
	config    config.NERConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(cfg config.NERConnectorConfig, logger *zap.Logger) *Connector {
	connCfg := &pkghttp.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return &Connector{
		config: cfg,
		connector: pkghttp.NewConnector(
			connCfg,
			pkghttp.WithRequestTimeout(cfg.RequestTimeout),
			pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
			pkghttp.WithClientKeepAlive(cfg.KeepAlive),
			pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
			pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
			pkghttp.WithRequestLogging(),
			pkghttp.WithAuthToken(cfg.Token),
		),
		logger: logger,
	}
}

type recognizeRequest struct {
	Text string `json:"text"`
}

type recognizeResponse struct {
	Entities []string `json:"entities"`
}

// Recognize returns the medical entity spans tagged in text. Transient
// failures are retried per the configured policy; a final failure
// propagates, since without the recognizer there is no symptom set to
// build a session from.
func (c *Connector) Recognize(ctx context.Context, text string) ([]string, error) {
	ctxzap.Info(ctx, "recognizing medical entities via NER service")

	var resp recognizeResponse
	opts := append(c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
	)
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.RecognizeEndpoint, &recognizeRequest{Text: text}, &resp)
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("recognize entities: %w", err)
	}

	ctxzap.Info(ctx, "entities recognized", zap.Int("entity_count", len(resp.Entities)))

	return resp.Entities, nil
}

// isTransient reports whether a request is worth retrying: connection
// failures and 5xx responses. Client errors are not.
func isTransient(err error) bool {
	var netErr *pkghttp.NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500
	}
	return false
}
