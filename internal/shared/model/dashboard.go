package model

// CourseCount 按冗余课程名分组的学生数
type CourseCount struct {
	Course string `json:"course" bson:"course"`
	Count  int    `json:"count" bson:"count"`
}

// DashboardMetrics 仪表盘聚合指标（派生数据，不持久化）
type DashboardMetrics struct {
	TotalStudents    int           `json:"total_students"`
	ActiveStudents   int           `json:"active_students"`
	TotalTurmas      int           `json:"total_turmas"`  // 仅 active 班级
	TotalCourses     int           `json:"total_courses"` // 仅 active 课程
	StudentsByCourse []CourseCount `json:"students_by_course"`
	RecentStudents   []*Student    `json:"recent_students"`
}
