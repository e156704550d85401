package model

import (
	"time"

	"gorm.io/datatypes"
)

// StatusLive 套餐上架状态，仅该状态的套餐进入公开目录
const StatusLive = 1

// SetMenu 套餐（上游分配ID，采集时一次性写入，不做原地更新）
type SetMenu struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement:false;comment:上游分配的套餐ID"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamp;not null;index:idx_set_menu_created_at;comment:上游创建时间"`
	Description    string    `gorm:"column:description;type:text;comment:套餐描述"`
	DisplayText    int       `gorm:"column:display_text;type:int;not null;comment:展示文案编号"`
	Image          string    `gorm:"column:image;type:varchar(512);not null;comment:图片地址"`
	Thumbnail      string    `gorm:"column:thumbnail;type:varchar(512);not null;comment:缩略图地址"`
	Name           string    `gorm:"column:name;type:varchar(255);not null;index:idx_set_menu_name;comment:套餐名称"`
	Status         int       `gorm:"column:status;type:int;not null;index:idx_set_menu_status;comment:状态：1=已上架"`
	PricePerPerson float64   `gorm:"column:price_per_person;type:numeric(10,2);not null;index:idx_set_menu_price;comment:人均价格"`
	MinSpend       float64   `gorm:"column:min_spend;type:numeric(10,2);not null;comment:最低消费"`
	IsVegan        bool      `gorm:"column:is_vegan;type:boolean;not null;index:idx_set_menu_dietary,priority:1;comment:纯素"`
	IsVegetarian   bool      `gorm:"column:is_vegetarian;type:boolean;not null;index:idx_set_menu_dietary,priority:2;comment:素食"`
	IsHalal        bool      `gorm:"column:is_halal;type:boolean;not null;index:idx_set_menu_dietary,priority:3;comment:清真"`
	IsKosher       bool      `gorm:"column:is_kosher;type:boolean;not null;comment:犹太洁食"`
	IsSeated       bool      `gorm:"column:is_seated;type:boolean;not null;comment:围桌用餐"`
	IsStanding     *bool     `gorm:"column:is_standing;type:boolean;comment:站立用餐（表内允许为空）"`
	IsCanape       bool      `gorm:"column:is_canape;type:boolean;not null;comment:小食形式"`
	IsMixedDietary bool      `gorm:"column:is_mixed_dietary;type:boolean;not null;comment:混合膳食"`
	IsMealPrep     bool      `gorm:"column:is_meal_prep;type:boolean;not null;comment:备餐形式"`
	Available      bool      `gorm:"column:available;type:boolean;not null;comment:是否可预订"`
	NumberOfOrders int       `gorm:"column:number_of_orders;type:int;not null;comment:累计订单数（热度排序依据）"`
}

// Cuisine 菜系（共享字典表，首次引用时懒创建，采集不做更新）
type Cuisine struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement:false;comment:上游分配的菜系ID"`
	Name string `gorm:"column:name;type:varchar(128);not null;comment:菜系名称"`
	Slug string `gorm:"column:slug;type:varchar(128);uniqueIndex:idx_cuisine_slug;not null;comment:URL友好标识"`
}

// SetMenuCuisineLink 套餐-菜系多对多关联（复合主键去重）
type SetMenuCuisineLink struct {
	SetMenuID int64 `gorm:"column:set_menu_id;primaryKey;autoIncrement:false;comment:套餐ID"`
	CuisineID int64 `gorm:"column:cuisine_id;primaryKey;autoIncrement:false;comment:菜系ID"`
}

// HarvestRun 一次采集运行的记录（供外部调度判断成败）
type HarvestRun struct {
	ID              uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	RunUUID         string         `gorm:"column:run_uuid;type:varchar(64);uniqueIndex;not null;comment:全局唯一运行ID"`
	SourceURL       string         `gorm:"column:source_url;type:varchar(512);not null;comment:起始抓取地址"`
	Status          string         `gorm:"column:status;type:varchar(16);default:running;comment:状态：running/succeeded/failed"`
	PagesFetched    int            `gorm:"column:pages_fetched;type:int;default:0;comment:已抓取页数"`
	RecordsIngested int            `gorm:"column:records_ingested;type:int;default:0;comment:已入库记录数"`
	RecordsSkipped  int            `gorm:"column:records_skipped;type:int;default:0;comment:因格式错误跳过的记录数"`
	LastError       string         `gorm:"column:last_error;type:text;comment:失败原因"`
	Meta            datatypes.JSON `gorm:"column:meta;type:jsonb;comment:上游最后一页的meta原文"`
	StartedAt       time.Time      `gorm:"column:started_at;type:timestamp;not null;comment:开始时间"`
	FinishedAt      *time.Time     `gorm:"column:finished_at;type:timestamp;comment:结束时间"`
}

func (SetMenu) TableName() string            { return "set_menu" }
func (Cuisine) TableName() string            { return "cuisine" }
func (SetMenuCuisineLink) TableName() string { return "set_menu_cuisine_link" }
func (HarvestRun) TableName() string         { return "harvest_runs" }

// 运行状态取值
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)
