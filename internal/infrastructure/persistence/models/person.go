package models

import "time"

// StudentModel is the persistence model for the student directory.
// The roll number is the natural key used across the campus systems.
type StudentModel struct {
	RollNumber string    `gorm:"type:varchar(50);primary_key"`
	Name       string    `gorm:"type:varchar(200);not null"`
	Department string    `gorm:"type:varchar(100);not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StudentModel) TableName() string {
	return "students"
}

// FacultyModel is the persistence model for the faculty directory.
type FacultyModel struct {
	EmployeeID string    `gorm:"type:varchar(50);primary_key"`
	Name       string    `gorm:"type:varchar(200);not null"`
	Department string    `gorm:"type:varchar(100);not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FacultyModel) TableName() string {
	return "faculty"
}

// DepartmentModel is the persistence model for the department catalog.
// Names are stored in their canonical uppercase form.
type DepartmentModel struct {
	Name      string    `gorm:"type:varchar(100);primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DepartmentModel) TableName() string {
	return "departments"
}
