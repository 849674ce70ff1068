package main

import (
	"fmt"
	"log"
	"time"

	"github.com/studioadmin/internal/config"
	"github.com/studioadmin/internal/db"
	"gorm.io/gorm"
)

// 演示数据生成器：评价由站点前台提交，本地开发时需要这里补齐
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("配置加载失败:", err)
	}

	gdb, err := db.Open(cfg.Database.Driver, cfg.DatabaseTarget())
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")

	if err := seedAll(gdb, time.Now()); err != nil {
		log.Fatal("演示数据生成失败:", err)
	}

	fmt.Println("演示数据生成完成！")
}

func seedAll(gdb *gorm.DB, now time.Time) error {
	steps := []struct {
		name string
		run  func(*gorm.DB, time.Time) (int, error)
	}{
		{"classes", seedClasses},
		{"contact_info", seedContact},
		{"testimonials", seedTestimonials},
		{"artworks", seedArtworks},
	}
	for _, step := range steps {
		created, err := step.run(gdb, now)
		if err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
		if created == 0 {
			fmt.Printf("%s 已存在，跳过创建\n", step.name)
			continue
		}
		fmt.Printf("✅ %s: %d 条\n", step.name, created)
	}
	return nil
}

// hasRows 检查表中是否已有数据
func hasRows(gdb *gorm.DB, model interface{}) (bool, error) {
	var count int64
	if err := gdb.Model(model).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func seedClasses(gdb *gorm.DB, _ time.Time) (int, error) {
	if exists, err := hasRows(gdb, &db.ClassRecord{}); err != nil || exists {
		return 0, err
	}

	classes := []db.ClassRecord{
		{Icon: "PenTool", Title: "Drawing Fundamentals", Description: "Line, shape and *value* from observation.", Duration: "8 weeks", Level: "Beginner"},
		{Icon: "Palette", Title: "Color Theory Studio", Description: "Mixing, temperature and harmony in practice.", Duration: "6 weeks", Level: "Intermediate"},
		{Icon: "Brush", Title: "Oil Painting", Description: "Alla prima and layered techniques.", Duration: "10 weeks", Level: "Advanced"},
		{Icon: "Droplets", Title: "Watercolor Weekends", Description: "Washes, blooms and loose landscapes.", Duration: "4 weeks", Level: "All Levels"},
	}
	if err := gdb.Create(&classes).Error; err != nil {
		return 0, err
	}
	return len(classes), nil
}

func seedContact(gdb *gorm.DB, _ time.Time) (int, error) {
	if exists, err := hasRows(gdb, &db.ContactInfo{}); err != nil || exists {
		return 0, err
	}

	info := db.ContactInfo{
		Headline:    "Let's make something together",
		Subheadline: "Private lessons and small group classes in the studio or online.",
		Email:       "hello@studio.example",
		Phone:       "+1 555 0100",
		Address:     "12 Canal Street, Studio 3",
		MapURL:      "https://maps.example.com/?q=12+Canal+Street",
	}
	if err := gdb.Create(&info).Error; err != nil {
		return 0, err
	}
	return 1, nil
}

func seedTestimonials(gdb *gorm.DB, now time.Time) (int, error) {
	if exists, err := hasRows(gdb, &db.Testimonial{}); err != nil || exists {
		return 0, err
	}

	reviews := []db.Testimonial{
		{Name: "Mara K.", Course: "Drawing Fundamentals", Stars: 5, Quote: "I finally understand how to see shapes instead of things."},
		{Name: "Jon P.", Course: "Oil Painting", Stars: 4, Quote: "Patient, precise feedback every single week."},
		{Name: "Aiko S.", Course: "Watercolor Weekends", Stars: 5, Quote: "Relaxed and inspiring. My sketchbook is full again."},
	}
	for i := range reviews {
		reviews[i].CreatedAt = now.Add(-time.Duration(len(reviews)-i) * 24 * time.Hour)
	}
	if err := gdb.Create(&reviews).Error; err != nil {
		return 0, err
	}
	return len(reviews), nil
}

func seedArtworks(gdb *gorm.DB, _ time.Time) (int, error) {
	if exists, err := hasRows(gdb, &db.Artwork{}); err != nil || exists {
		return 0, err
	}

	artworks := []db.Artwork{
		{Src: "https://picsum.photos/seed/harbor/1200/900", Title: "Harbor at Dusk", Medium: "Oil on canvas", Year: "2023", Size: "50 x 70 cm"},
		{Src: "https://picsum.photos/seed/orchard/1200/900", Title: "Orchard Study", Medium: "Watercolor", Year: "2024", Size: "30 x 40 cm"},
		{Src: "https://picsum.photos/seed/portrait/900/1200", Title: "Portrait of M.", Medium: "Charcoal", Year: "2022", Size: "42 x 59 cm"},
	}
	if err := gdb.Create(&artworks).Error; err != nil {
		return 0, err
	}
	return len(artworks), nil
}
