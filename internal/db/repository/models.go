package repository

// Category is a labelled grouping of questions.
type Category struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Type string `gorm:"type:text;not null" json:"type"`
}

func (Category) TableName() string { return "categories" }

// Question is a trivia item belonging to exactly one category.
type Question struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	Question   string `gorm:"type:text;not null" json:"question"`
	Answer     string `gorm:"type:text;not null" json:"answer"`
	Category   int    `gorm:"not null;index" json:"category"`
	Difficulty int    `gorm:"not null" json:"difficulty"`
}

func (Question) TableName() string { return "questions" }
