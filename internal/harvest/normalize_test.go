package harvest

import (
	"reflect"
	"testing"
	"time"

	"MenuSync/internal/source"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

// 所有可缺省字段都缺失时，应补齐文档约定的默认值
func TestNormalizeDefaults(t *testing.T) {
	raw := &source.RawSetMenu{
		ID:        42,
		CreatedAt: strPtr("2024-03-01T10:00:00Z"),
	}

	menu, cuisines, err := Normalize(raw)
	if err != nil {
		t.Fatalf("规范化失败: %v", err)
	}

	if menu.ID != 42 {
		t.Fatalf("ID应透传, got %d", menu.ID)
	}
	if menu.Name != "" || menu.Description != "" || menu.Image != "" || menu.Thumbnail != "" {
		t.Fatal("字符串字段默认值应为空串")
	}
	if menu.DisplayText != 0 || menu.Status != 0 || menu.NumberOfOrders != 0 {
		t.Fatal("整数字段默认值应为0")
	}
	if menu.PricePerPerson != 0.0 || menu.MinSpend != 0.0 {
		t.Fatal("浮点字段默认值应为0.0")
	}
	for name, v := range map[string]bool{
		"is_vegan":         menu.IsVegan,
		"is_vegetarian":    menu.IsVegetarian,
		"is_seated":        menu.IsSeated,
		"is_canape":        menu.IsCanape,
		"is_mixed_dietary": menu.IsMixedDietary,
		"is_meal_prep":     menu.IsMealPrep,
		"is_halal":         menu.IsHalal,
		"is_kosher":        menu.IsKosher,
		"available":        menu.Available,
	} {
		if v {
			t.Fatalf("布尔字段%s默认值应为false", name)
		}
	}
	if menu.IsStanding == nil || *menu.IsStanding {
		t.Fatal("is_standing缺失时应补为false")
	}
	if len(cuisines) != 0 {
		t.Fatalf("无内嵌菜系时应返回空列表, got %d", len(cuisines))
	}
}

// 已给出的非空值必须原样透传
func TestNormalizePassthrough(t *testing.T) {
	raw := &source.RawSetMenu{
		ID:             7,
		CreatedAt:      strPtr("2024-06-15T08:30:00+01:00"),
		Name:           strPtr("Tuscan Feast"),
		Description:    strPtr("four courses"),
		DisplayText:    intPtr(3),
		Status:         intPtr(1),
		PricePerPerson: floatPtr(55.5),
		MinSpend:       floatPtr(300),
		NumberOfOrders: intPtr(128),
		IsVegan:        boolPtr(true),
		IsStanding:     boolPtr(true),
		Available:      boolPtr(true),
		Cuisines: []source.RawCuisine{
			{ID: 1, Name: "Italian"},
			{ID: 2, Name: "Modern European"},
		},
	}

	menu, cuisines, err := Normalize(raw)
	if err != nil {
		t.Fatalf("规范化失败: %v", err)
	}

	if menu.Name != "Tuscan Feast" || menu.Description != "four courses" {
		t.Fatal("字符串字段应透传")
	}
	if menu.DisplayText != 3 || menu.Status != 1 || menu.NumberOfOrders != 128 {
		t.Fatal("整数字段应透传")
	}
	if menu.PricePerPerson != 55.5 || menu.MinSpend != 300 {
		t.Fatal("浮点字段应透传")
	}
	if !menu.IsVegan || !menu.Available {
		t.Fatal("布尔字段应透传")
	}
	if menu.IsStanding == nil || !*menu.IsStanding {
		t.Fatal("is_standing为true时应透传")
	}
	wantTime := time.Date(2024, 6, 15, 8, 30, 0, 0, time.FixedZone("", 3600))
	if !menu.CreatedAt.Equal(wantTime) {
		t.Fatalf("created_at解析错误: %v", menu.CreatedAt)
	}

	if len(cuisines) != 2 {
		t.Fatalf("应返回2个菜系, got %d", len(cuisines))
	}
	if cuisines[0].ID != 1 || cuisines[0].Name != "Italian" || cuisines[0].Slug != "italian" {
		t.Fatalf("菜系字段错误: %+v", cuisines[0])
	}
	if cuisines[1].Slug != "modern-european" {
		t.Fatalf("多词菜系slug错误: %s", cuisines[1].Slug)
	}
}

// 尾缀Z的UTC时间应等价于+00:00
func TestNormalizeZuluTimestamp(t *testing.T) {
	rawZ := &source.RawSetMenu{ID: 1, CreatedAt: strPtr("2024-01-02T03:04:05Z")}
	rawOffset := &source.RawSetMenu{ID: 1, CreatedAt: strPtr("2024-01-02T03:04:05+00:00")}

	menuZ, _, err := Normalize(rawZ)
	if err != nil {
		t.Fatalf("Z时间解析失败: %v", err)
	}
	menuOffset, _, err := Normalize(rawOffset)
	if err != nil {
		t.Fatalf("偏移时间解析失败: %v", err)
	}
	if !menuZ.CreatedAt.Equal(menuOffset.CreatedAt) {
		t.Fatalf("Z与+00:00应解析为同一时刻: %v vs %v", menuZ.CreatedAt, menuOffset.CreatedAt)
	}
}

// created_at缺失或无法解析，对该条记录是硬错误
func TestNormalizeBadCreatedAt(t *testing.T) {
	cases := []*source.RawSetMenu{
		{ID: 1},
		{ID: 2, CreatedAt: strPtr("")},
		{ID: 3, CreatedAt: strPtr("not-a-timestamp")},
		{ID: 4, CreatedAt: strPtr("2024-13-45T99:00:00Z")},
	}
	for _, raw := range cases {
		if _, _, err := Normalize(raw); err == nil {
			t.Fatalf("记录%d应返回错误", raw.ID)
		}
	}
}

// 规范化具有幂等性：对已规范化的记录再跑一遍，结果不变
func TestNormalizeIdempotent(t *testing.T) {
	raw := &source.RawSetMenu{
		ID:             9,
		CreatedAt:      strPtr("2024-02-01T12:00:00Z"),
		Name:           strPtr("Sushi Night"),
		Status:         intPtr(1),
		PricePerPerson: floatPtr(40),
		Cuisines:       []source.RawCuisine{{ID: 5, Name: "Japanese"}},
	}

	first, firstCuisines, err := Normalize(raw)
	if err != nil {
		t.Fatalf("第一次规范化失败: %v", err)
	}

	// 把第一次的输出重新包装为原始记录
	createdAt := first.CreatedAt.Format(time.RFC3339)
	renormalized := &source.RawSetMenu{
		ID:             first.ID,
		CreatedAt:      &createdAt,
		Description:    &first.Description,
		DisplayText:    &first.DisplayText,
		Image:          &first.Image,
		Thumbnail:      &first.Thumbnail,
		Name:           &first.Name,
		Status:         &first.Status,
		PricePerPerson: &first.PricePerPerson,
		MinSpend:       &first.MinSpend,
		IsVegan:        &first.IsVegan,
		IsVegetarian:   &first.IsVegetarian,
		IsSeated:       &first.IsSeated,
		IsStanding:     first.IsStanding,
		IsCanape:       &first.IsCanape,
		IsMixedDietary: &first.IsMixedDietary,
		IsMealPrep:     &first.IsMealPrep,
		IsHalal:        &first.IsHalal,
		IsKosher:       &first.IsKosher,
		Available:      &first.Available,
		NumberOfOrders: &first.NumberOfOrders,
		Cuisines:       []source.RawCuisine{{ID: 5, Name: "Japanese"}},
	}

	second, secondCuisines, err := Normalize(renormalized)
	if err != nil {
		t.Fatalf("第二次规范化失败: %v", err)
	}

	if !first.CreatedAt.Equal(second.CreatedAt) {
		t.Fatalf("created_at不幂等: %v vs %v", first.CreatedAt, second.CreatedAt)
	}
	// 时间单独比较过了，剩余字段逐一对齐后整体比较
	second.CreatedAt = first.CreatedAt
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("规范化不幂等: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(firstCuisines, secondCuisines) {
		t.Fatalf("菜系规范化不幂等: %+v vs %+v", firstCuisines, secondCuisines)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Italian":         "italian",
		"Modern European": "modern-european",
		"  BBQ & Grill  ": "bbq-grill",
		"Pan-Asian":       "pan-asian",
		"Fish \t Chips":   "fish-chips",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
