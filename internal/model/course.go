package model

// Mentor is embedded course authorship info shown on cards.
type Mentor struct {
	ID     string `gorm:"size:36" json:"id"`
	Name   string `gorm:"size:100" json:"name"`
	Avatar string `gorm:"size:255" json:"avatar"`
}

// Course is the catalog aggregate: ordered modules, each with ordered
// lessons backed by one video asset. Visibility is governed by the
// publication flag plus cohort and plan allow-lists; empty allow-lists
// mean open access on that dimension.
// swagger:model Course
type Course struct {
	UUIDBase
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Thumbnail    string         `gorm:"size:255" json:"thumbnail"`
	Category     string         `gorm:"size:100;index" json:"category"`
	MentorID     string         `gorm:"size:36;index" json:"-"`
	MentorName   string         `gorm:"size:100" json:"-"`
	MentorAvatar string         `gorm:"size:255" json:"-"`
	Tags         StringList     `gorm:"type:json" json:"tags"`
	Difficulty   string         `gorm:"size:50" json:"difficulty"`
	Cohorts      StringList     `gorm:"type:json" json:"cohorts"`
	Plans        StringList     `gorm:"type:json" json:"plans"`
	IsPublished  bool           `gorm:"default:false;index" json:"isPublished"`
	Position     int            `gorm:"default:0;index" json:"-"`
	Modules      []CourseModule `gorm:"foreignKey:CourseID" json:"modules"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) Mentor() Mentor {
	return Mentor{ID: c.MentorID, Name: c.MentorName, Avatar: c.MentorAvatar}
}

// Lessons flattens the course content in module/lesson order.
func (c *Course) Lessons() []Lesson {
	var lessons []Lesson
	for _, m := range c.Modules {
		lessons = append(lessons, m.Lessons...)
	}
	return lessons
}

// swagger:model CourseModule
type CourseModule struct {
	UUIDBase
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	CourseID    string   `gorm:"size:36;index" json:"courseId"`
	Order       int      `gorm:"default:0" json:"order"`
	Lessons     []Lesson `gorm:"foreignKey:ModuleID" json:"lessons"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

// swagger:model Lesson
type Lesson struct {
	UUIDBase
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	ModuleID     string     `gorm:"size:36;index" json:"moduleId"`
	Order        int        `gorm:"default:0" json:"order"`
	VideoAssetID string     `gorm:"size:36;index" json:"-"`
	VideoAsset   VideoAsset `gorm:"foreignKey:VideoAssetID" json:"videoAsset"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// VideoAsset is an opaque media resource reached by URL. Duration is
// in seconds and never negative.
// swagger:model VideoAsset
type VideoAsset struct {
	UUIDBase
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Thumbnail   string  `gorm:"size:255" json:"thumbnail"`
	Duration    float64 `gorm:"default:0" json:"duration"`
	ObjectKey   string  `gorm:"size:255" json:"-"`
	Format      string  `gorm:"size:50" json:"format"`
	Size        int64   `gorm:"default:0" json:"size"`
	IsLive      bool    `gorm:"default:false" json:"isLive"`
	UploaderID  string  `gorm:"size:36;index" json:"-"`
}

func (VideoAsset) TableName() string {
	return "video_assets"
}

// swagger:model Category
type Category struct {
	UUIDBase
	Name    string `gorm:"size:100;unique;not null" json:"name"`
	Order   int    `gorm:"default:0" json:"order"`
	Enabled bool   `gorm:"default:true" json:"enabled"`
}

func (Category) TableName() string {
	return "categories"
}
