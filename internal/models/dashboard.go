package models

type DashboardStatistics struct {
	TotalStudents        *int     `json:"totalStudents,omitempty"`
	TotalClasses         *int     `json:"totalClasses,omitempty"`
	ActiveAssignments    *int     `json:"activeAssignments,omitempty"`
	PendingSubmissions   *int     `json:"pendingSubmissions,omitempty"`
	GradedSubmissions    *int     `json:"gradedSubmissions,omitempty"`
	AverageScore         *float64 `json:"averageScore,omitempty"`
	PortfolioCount       *int     `json:"portfolioCount,omitempty"`
	CompletedAssignments *int     `json:"completedAssignments,omitempty"`
	TotalAssignments     *int     `json:"totalAssignments,omitempty"`
	PendingAssignments   *int     `json:"pendingAssignments,omitempty"`
	HighestScore         *float64 `json:"highestScore,omitempty"`
	TotalSubmissions     *int     `json:"totalSubmissions,omitempty"`
}

type UpcomingDeadline struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Deadline        string `json:"deadline"`
	SubmissionCount int    `json:"submissionCount"`
	TotalStudents   int    `json:"totalStudents"`
}

type DashboardOverview struct {
	Role              Role                `json:"role"`
	Statistics        DashboardStatistics `json:"statistics"`
	UpcomingDeadlines []UpcomingDeadline  `json:"upcomingDeadlines,omitempty"`
}

type ExportFormat string

const (
	ExportSummary  ExportFormat = "summary"
	ExportDetailed ExportFormat = "detailed"
)

type ExportGradesRequest struct {
	ClassIDs      []string     `json:"classIds,omitempty"`
	AssignmentIDs []string     `json:"assignmentIds,omitempty"`
	StudentIDs    []string     `json:"studentIds,omitempty"`
	Statuses      []string     `json:"statuses,omitempty"`
	StartDate     string       `json:"startDate,omitempty"`
	EndDate       string       `json:"endDate,omitempty"`
	Format        ExportFormat `json:"format,omitempty"`
}
