package harvest

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"MenuSync/internal/model"
	"MenuSync/internal/source"
)

// Normalize 把一条上游原始记录转换为落库模型：先剥离内嵌菜系，
// 再按字段补默认值（布尔→false，数值→0，字符串→""）。
// 纯转换、无副作用，对同一输入重复调用结果一致。
func Normalize(raw *source.RawSetMenu) (*model.SetMenu, []model.Cuisine, error) {
	createdAt, err := parseCreatedAt(raw.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("记录%d的created_at非法: %w", raw.ID, err)
	}

	menu := &model.SetMenu{
		ID:             raw.ID,
		CreatedAt:      createdAt,
		Description:    strOrDefault(raw.Description),
		DisplayText:    intOrDefault(raw.DisplayText),
		Image:          strOrDefault(raw.Image),
		Thumbnail:      strOrDefault(raw.Thumbnail),
		Name:           strOrDefault(raw.Name),
		Status:         intOrDefault(raw.Status),
		PricePerPerson: floatOrDefault(raw.PricePerPerson),
		MinSpend:       floatOrDefault(raw.MinSpend),
		IsVegan:        boolOrDefault(raw.IsVegan),
		IsVegetarian:   boolOrDefault(raw.IsVegetarian),
		IsSeated:       boolOrDefault(raw.IsSeated),
		IsStanding:     boolPtrOrFalse(raw.IsStanding),
		IsCanape:       boolOrDefault(raw.IsCanape),
		IsMixedDietary: boolOrDefault(raw.IsMixedDietary),
		IsMealPrep:     boolOrDefault(raw.IsMealPrep),
		IsHalal:        boolOrDefault(raw.IsHalal),
		IsKosher:       boolOrDefault(raw.IsKosher),
		Available:      boolOrDefault(raw.Available),
		NumberOfOrders: intOrDefault(raw.NumberOfOrders),
	}

	cuisines := make([]model.Cuisine, 0, len(raw.Cuisines))
	for _, rc := range raw.Cuisines {
		cuisines = append(cuisines, model.Cuisine{
			ID:   rc.ID,
			Name: rc.Name,
			Slug: Slugify(rc.Name),
		})
	}

	return menu, cuisines, nil
}

// parseCreatedAt 解析ISO-8601时间串。上游可能用尾缀Z表示UTC，
// 先换成显式+00:00偏移再解析。缺失或解析失败对该条记录是硬错误。
func parseCreatedAt(s *string) (time.Time, error) {
	if s == nil || *s == "" {
		return time.Time{}, fmt.Errorf("缺少created_at")
	}
	normalized := strings.Replace(*s, "Z", "+00:00", 1)
	t, err := time.Parse(time.RFC3339, normalized)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 由菜系名称推导URL友好标识：小写化，非字母数字折叠为单个连字符。
// 上游菜系引用不带slug，此处补齐以满足cuisine.slug唯一索引。
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlphaNum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func strOrDefault(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intOrDefault(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func floatOrDefault(p *float64) float64 {
	if p == nil {
		return 0.0
	}
	return *p
}

func boolOrDefault(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}

// boolPtrOrFalse is_standing在表结构里允许为空，只在规范化时补false
func boolPtrOrFalse(p *bool) *bool {
	if p == nil {
		f := false
		return &f
	}
	return p
}
