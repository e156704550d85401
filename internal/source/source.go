package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"MenuSync/internal/config"
	"MenuSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// RawCuisine 上游套餐记录内嵌的菜系引用（上游只给id和name，不带slug）
type RawCuisine struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RawSetMenu 上游原始套餐记录。除id外字段均可能缺失或为null，
// 统一用指针接住，由normalizer负责补默认值。
type RawSetMenu struct {
	ID             int64        `json:"id"`
	CreatedAt      *string      `json:"created_at"`
	Description    *string      `json:"description"`
	DisplayText    *int         `json:"display_text"`
	Image          *string      `json:"image"`
	Thumbnail      *string      `json:"thumbnail"`
	Name           *string      `json:"name"`
	Status         *int         `json:"status"`
	PricePerPerson *float64     `json:"price_per_person"`
	MinSpend       *float64     `json:"min_spend"`
	IsVegan        *bool        `json:"is_vegan"`
	IsVegetarian   *bool        `json:"is_vegetarian"`
	IsSeated       *bool        `json:"is_seated"`
	IsStanding     *bool        `json:"is_standing"`
	IsCanape       *bool        `json:"is_canape"`
	IsMixedDietary *bool        `json:"is_mixed_dietary"`
	IsMealPrep     *bool        `json:"is_meal_prep"`
	IsHalal        *bool        `json:"is_halal"`
	IsKosher       *bool        `json:"is_kosher"`
	Available      *bool        `json:"available"`
	NumberOfOrders *int         `json:"number_of_orders"`
	Cuisines       []RawCuisine `json:"cuisines"`
}

// PageLinks 上游分页游标
type PageLinks struct {
	First *string `json:"first"`
	Last  *string `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// Page 上游一页的完整响应
type Page struct {
	Data  []RawSetMenu    `json:"data"`
	Links PageLinks       `json:"links"`
	Meta  json.RawMessage `json:"meta"`
}

// NextURL 返回下一页地址，没有下一页时返回空串
func (p *Page) NextURL() string {
	if p.Links.Next == nil {
		return ""
	}
	return *p.Links.Next
}

// Client 上游套餐接口客户端
type Client struct {
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient 创建上游客户端
func NewClient(cfg *config.HarvestConfig, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// FetchPage 抓取一页套餐数据。非2xx响应与网络错误都返回error，由调用方决定终止。
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求上游失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("上游返回异常状态码: %d, url: %s", resp.StatusCode, pageURL)
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("解析上游响应失败: %w", err)
	}
	return &page, nil
}
