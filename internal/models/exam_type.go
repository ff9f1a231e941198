package models

type ExamType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ExamTypeCreate struct {
	Name string `json:"name" validate:"notblank,max=255"`
}

type ExamTypeUpdate struct {
	Name string `json:"name" validate:"notblank,max=255"`
}
