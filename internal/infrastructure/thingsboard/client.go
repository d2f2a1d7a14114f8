// Package thingsboard 是外部 IoT 平台的适配器：登录、设备属性更新、遥测上报，
// 以及设备遥测 WebSocket 订阅。
package thingsboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrDisabled 未配置平台地址
var ErrDisabled = errors.New("thingsboard: client disabled")

// Config 平台连接参数
type Config struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type errorResponse struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	ErrorCode int    `json:"errorCode"`
}

// StatusError 平台返回的非 2xx 响应
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("thingsboard %s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// Client ThingsBoard REST 客户端。登录令牌缓存在实例内，直到失效
type Client struct {
	httpClient *resty.Client
	cfg        Config
	logger     *zap.Logger

	mu    sync.Mutex
	token string
}

// NewClient 创建客户端；BaseURL 为空时返回一个禁用的客户端
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger,
	}
}

// Enabled 是否配置了平台地址
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.BaseURL != ""
}

// BaseURL 平台地址
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.cfg.BaseURL
}

// Login 登录平台并缓存令牌
func (c *Client) Login(ctx context.Context) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	var result loginResponse
	var apiErr errorResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(loginRequest{Username: c.cfg.Username, Password: c.cfg.Password}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/api/auth/login")
	if err != nil {
		return "", fmt.Errorf("thingsboard login: %w", err)
	}
	if resp.IsError() {
		return "", &StatusError{Op: "login", StatusCode: resp.StatusCode(), Message: apiErr.Message}
	}
	if result.Token == "" {
		return "", errors.New("thingsboard login: empty token in response")
	}

	c.mu.Lock()
	c.token = result.Token
	c.mu.Unlock()

	c.logger.Info("thingsboard login succeeded", zap.String("base_url", c.cfg.BaseURL))
	return result.Token, nil
}

// Token 返回缓存的令牌，不存在时登录
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		return token, nil
	}
	return c.Login(ctx)
}

// InvalidateToken 丢弃缓存的令牌，下次调用时重新登录
func (c *Client) InvalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// UpdateDeviceAttributes 更新设备共享属性。遇到 401 时重新登录并重试一次
func (c *Client) UpdateDeviceAttributes(ctx context.Context, deviceID string, attributes map[string]interface{}) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if deviceID == "" {
		return errors.New("thingsboard: device id is required")
	}

	path := "/api/plugins/telemetry/DEVICE/" + url.PathEscape(deviceID) + "/attributes/SHARED_SCOPE"
	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.Token(ctx)
		if err != nil {
			return err
		}

		var apiErr errorResponse
		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetHeader("X-Authorization", "Bearer "+token).
			SetBody(attributes).
			SetError(&apiErr).
			Post(path)
		if err != nil {
			return fmt.Errorf("thingsboard update attributes: %w", err)
		}
		if resp.StatusCode() == http.StatusUnauthorized && attempt == 0 {
			c.logger.Warn("thingsboard token rejected, logging in again", zap.String("device_id", deviceID))
			c.InvalidateToken()
			continue
		}
		if resp.IsError() {
			return &StatusError{Op: "update attributes", StatusCode: resp.StatusCode(), Message: apiErr.Message}
		}
		return nil
	}
	return &StatusError{Op: "update attributes", StatusCode: http.StatusUnauthorized, Message: "token rejected after re-login"}
}

// SendTelemetry 使用设备访问令牌上报遥测数据
func (c *Client) SendTelemetry(ctx context.Context, accessToken string, payload map[string]interface{}) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if accessToken == "" {
		return errors.New("thingsboard: device access token is required")
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/api/v1/" + url.PathEscape(accessToken) + "/telemetry")
	if err != nil {
		return fmt.Errorf("thingsboard send telemetry: %w", err)
	}
	if resp.IsError() {
		return &StatusError{Op: "send telemetry", StatusCode: resp.StatusCode(), Message: resp.String()}
	}
	return nil
}
