package db

import (
	"time"

	"gorm.io/gorm"
)

// Model 是所有内容表共享的主键与时间戳字段。
// 删除为软删除，已删除的 ID 不会被重新分配。
type Model struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// RecordID returns the store-assigned primary key.
func (m Model) RecordID() uint {
	return m.ID
}

// ClassRecord 定义课程展示卡片
type ClassRecord struct {
	Model
	Icon        string `gorm:"size:32;not null" json:"icon"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Duration    string `gorm:"size:80" json:"duration"`
	Level       string `gorm:"size:32" json:"level"`
}

// TableName 返回课程表名
func (ClassRecord) TableName() string {
	return "classes"
}

// ContactInfo 保存联系我们区块的内容，表中只使用第一行
type ContactInfo struct {
	Model
	Headline    string `gorm:"size:200" json:"headline"`
	Subheadline string `gorm:"size:255" json:"subheadline"`
	Email       string `gorm:"size:255" json:"email"`
	Phone       string `gorm:"size:64" json:"phone"`
	Address     string `gorm:"size:255" json:"address"`
	MapURL      string `gorm:"column:map_url;size:1024" json:"map_url"`
}

// TableName 返回联系信息表名
func (ContactInfo) TableName() string {
	return "contact_info"
}

// Testimonial 学员评价，由前台提交，后台只读与删除
type Testimonial struct {
	Model
	Name   string `gorm:"size:120" json:"name"`
	Course string `gorm:"size:200" json:"course"`
	Stars  int    `gorm:"not null;default:0" json:"stars"`
	Quote  string `gorm:"type:text" json:"quote"`
}

// TableName 返回评价表名
func (Testimonial) TableName() string {
	return "testimonials"
}

// Artwork 定义作品集中的一幅作品，Src 指向对象存储中的图片
type Artwork struct {
	Model
	Src         string `gorm:"size:1024;not null" json:"src"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Medium      string `gorm:"size:120" json:"medium"`
	Year        string `gorm:"size:16" json:"year"`
	Size        string `gorm:"size:64" json:"size"`
}

// TableName 返回作品表名
func (Artwork) TableName() string {
	return "artworks"
}
