// Package remote 托管记录服务（Record API）的存储驱动。
//
// 对外实现 repository 包中的各接口；字段名映射、请求/响应信封的拆解都
// 在本包内完成，松散的 JSON 结构不会泄漏到包外。
//
// 读取失败一律降级：列表返回空、单条返回 gorm.ErrRecordNotFound、删除返回 false，
// 并通过 zap 记录原因。写入失败返回 errors.ErrRemoteRejected。
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/apper-canvas/study-primary-pixel/internal/metrics"
	"github.com/apper-canvas/study-primary-pixel/internal/repository"
)

// Config 远程记录服务连接参数
type Config struct {
	BaseURL   string
	ProjectID string
	PublicKey string
	Timeout   time.Duration
	PageSize  int
}

const (
	defaultTimeout  = 15 * time.Second
	defaultPageSize = 100
	maxErrorBody    = 4 << 10
)

// Client Record API 客户端
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient 创建 Client；BaseURL 与 ProjectID 必填
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("remote.base_url 不能为空")
	}
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, fmt.Errorf("remote.project_id 不能为空")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With(zap.String("component", "remote-store")),
	}, nil
}

// Repository 以 Repository 聚合的形式暴露远程驱动
func (c *Client) Repository() *repository.Repository {
	return &repository.Repository{
		Course:     &courseRepo{c: c},
		Assignment: &assignmentRepo{c: c},
		Grade:      &gradeRepo{c: c},
	}
}

// ── 请求信封 ──

type fieldName struct {
	Name string `json:"Name"`
}

type fieldRef struct {
	Field fieldName `json:"field"`
}

type orderBy struct {
	FieldName string `json:"fieldName"`
	SortType  string `json:"sorttype"`
}

type whereClause struct {
	FieldName string `json:"FieldName"`
	Operator  string `json:"Operator"`
	Values    []any  `json:"Values"`
}

type pagingInfo struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type queryParams struct {
	Fields     []fieldRef    `json:"fields"`
	Where      []whereClause `json:"where,omitempty"`
	OrderBy    []orderBy     `json:"orderBy,omitempty"`
	PagingInfo *pagingInfo   `json:"pagingInfo,omitempty"`
}

type writeParams struct {
	Records []any `json:"records"`
}

type deleteParams struct {
	RecordIDs []int `json:"RecordIds"`
}

func fieldsOf(names []string) []fieldRef {
	refs := make([]fieldRef, 0, len(names))
	for _, n := range names {
		refs = append(refs, fieldRef{Field: fieldName{Name: n}})
	}
	return refs
}

// ── 响应信封 ──

type fieldError struct {
	FieldLabel string `json:"fieldLabel"`
	Message    string `json:"message"`
}

type recordResult struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Errors  []fieldError    `json:"errors,omitempty"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Results []recordResult  `json:"results,omitempty"`
}

// firstSuccess 返回批量写入中第一条成功记录的数据；存在失败记录时返回错误
func (e *envelope) firstSuccess() (json.RawMessage, error) {
	if len(e.Results) == 0 {
		return e.Data, nil
	}
	var msgs []string
	var first json.RawMessage
	for _, r := range e.Results {
		if !r.Success {
			if r.Message != "" {
				msgs = append(msgs, r.Message)
			}
			for _, fe := range r.Errors {
				label := fe.FieldLabel
				if label == "" {
					label = "Error"
				}
				msgs = append(msgs, label+": "+fe.Message)
			}
			if r.Message == "" && len(r.Errors) == 0 {
				msgs = append(msgs, "记录写入失败")
			}
			continue
		}
		if first == nil {
			first = r.Data
		}
	}
	if len(msgs) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return first, nil
}

// ── 传输 ──

// do 发送请求并解出信封；非 2xx 或 success=false 都视为失败
func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("序列化请求失败: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Project-Id", c.cfg.ProjectID)
	if c.cfg.PublicKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.PublicKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求远程记录服务失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("远程记录服务返回 %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "success=false"
		}
		return nil, fmt.Errorf("远程记录服务拒绝请求: %s", msg)
	}
	return &env, nil
}

func tablePath(table string) string {
	return "/tables/" + table + "/records"
}

// maxFetchPages 单次 fetchAll 最多请求的页数，服务端忽略 offset 时据此终止
var maxFetchPages = 1000

// fetchAll 分页拉取整张表
func (c *Client) fetchAll(ctx context.Context, table string, fields []string, where []whereClause) ([]json.RawMessage, error) {
	var all []json.RawMessage
	for page, offset := 0, 0; ; page, offset = page+1, offset+c.cfg.PageSize {
		if page >= maxFetchPages {
			c.logger.Warn("分页数超过上限，结果可能不完整",
				zap.String("table", table),
				zap.Int("pages", page),
				zap.Int("records", len(all)))
			metrics.RemoteFailuresTotal.WithLabelValues(table, "fetch").Inc()
			return all, nil
		}
		params := queryParams{
			Fields:     fieldsOf(fields),
			Where:      where,
			OrderBy:    []orderBy{{FieldName: "Id", SortType: "ASC"}},
			PagingInfo: &pagingInfo{Limit: c.cfg.PageSize, Offset: offset},
		}
		env, err := c.do(ctx, http.MethodPost, tablePath(table)+"/query", params)
		if err != nil {
			metrics.RemoteFailuresTotal.WithLabelValues(table, "fetch").Inc()
			return nil, err
		}
		var batch []json.RawMessage
		if len(env.Data) > 0 && string(env.Data) != "null" {
			if err := json.Unmarshal(env.Data, &batch); err != nil {
				return nil, fmt.Errorf("解析记录列表失败: %w", err)
			}
		}
		all = append(all, batch...)
		if len(batch) < c.cfg.PageSize {
			return all, nil
		}
	}
}

// fetchOne 按 ID 读取单条记录；记录不存在时 data 为 null
func (c *Client) fetchOne(ctx context.Context, table string, id int, fields []string) (json.RawMessage, error) {
	params := queryParams{Fields: fieldsOf(fields)}
	env, err := c.do(ctx, http.MethodPost, fmt.Sprintf("%s/%d/query", tablePath(table), id), params)
	if err != nil {
		metrics.RemoteFailuresTotal.WithLabelValues(table, "fetch").Inc()
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	return env.Data, nil
}

// write 创建或更新单条记录，返回服务端回写的记录数据
func (c *Client) write(ctx context.Context, method, table string, record any) (json.RawMessage, error) {
	env, err := c.do(ctx, method, tablePath(table), writeParams{Records: []any{record}})
	if err == nil {
		var data json.RawMessage
		if data, err = env.firstSuccess(); err == nil {
			return data, nil
		}
	}
	metrics.RemoteFailuresTotal.WithLabelValues(table, "write").Inc()
	return nil, err
}

// remove 删除单条记录
func (c *Client) remove(ctx context.Context, table string, id int) error {
	env, err := c.do(ctx, http.MethodDelete, tablePath(table), deleteParams{RecordIDs: []int{id}})
	if err == nil {
		_, err = env.firstSuccess()
	}
	if err != nil {
		metrics.RemoteFailuresTotal.WithLabelValues(table, "delete").Inc()
	}
	return err
}
