package dto

// CourseListQuery filters catalog listings.
type CourseListQuery struct {
	Term       string `form:"term" json:"term" validate:"omitempty,numeric,len=6"`
	Department string `form:"department" json:"department" validate:"omitempty,alpha,min=3,max=4"`
}

// SectionListQuery selects the term for section listings.
type SectionListQuery struct {
	Term string `form:"term" json:"term" validate:"omitempty,numeric,len=6"`
}
