package domain

import (
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Upload / import
// ---------------------------------------------------------------------------

// SheetPreview describes one worksheet of an uploaded workbook
type SheetPreview struct {
	Name    string     `json:"name"`
	Rows    int        `json:"rows"`
	Cols    int        `json:"cols"`
	Preview [][]string `json:"preview"` // first 5 data rows
}

// UploadPreviewResponse is the response of POST /api/upload/preview
type UploadPreviewResponse struct {
	Sheets []SheetPreview `json:"sheets"`
}

// SheetImportResult is the per-sheet outcome of an import run
type SheetImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

// UploadImportResponse is the response of POST /api/upload/import
type UploadImportResponse struct {
	Results     map[string]SheetImportResult `json:"results"`
	ArchivePath string                       `json:"archivePath,omitempty"`
}

// ---------------------------------------------------------------------------
// Projects
// ---------------------------------------------------------------------------

// CreateProjectRequest is the request body for creating a project
type CreateProjectRequest struct {
	Code            string  `json:"code" validate:"omitempty,max=50"`
	Name            string  `json:"name" validate:"required,max=200"`
	Client          string  `json:"client" validate:"omitempty,max=200"`
	BillingCategory string  `json:"billingCategory" validate:"omitempty,oneof=Fixed T&M"`
	Status          string  `json:"status" validate:"omitempty,oneof=active on_hold completed closed"`
	PartnerName     string  `json:"partnerName" validate:"omitempty,max=200"`
	ManagerName     string  `json:"managerName" validate:"omitempty,max=200"`
	StartDate       string  `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate         string  `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	WorkOrderValue  string  `json:"workOrderValue" validate:"omitempty,numeric"`
	Budget          string  `json:"budget" validate:"omitempty,numeric"`
	ContractValue   string  `json:"contractValue" validate:"omitempty,numeric"`
	Commentary      string  `json:"commentary" validate:"omitempty,max=5000"`
	Margin          float64 `json:"margin" validate:"omitempty,gte=-10,lte=10"`
}

// UpdateProjectRequest is the request body for updating a project.
// Pointer fields distinguish "not provided" from zero values.
type UpdateProjectRequest struct {
	Name            *string  `json:"name" validate:"omitempty,max=200"`
	Client          *string  `json:"client" validate:"omitempty,max=200"`
	BillingCategory *string  `json:"billingCategory" validate:"omitempty,oneof=Fixed T&M"`
	Status          *string  `json:"status" validate:"omitempty,oneof=active on_hold completed closed"`
	PartnerName     *string  `json:"partnerName" validate:"omitempty,max=200"`
	ManagerName     *string  `json:"managerName" validate:"omitempty,max=200"`
	StartDate       *string  `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate         *string  `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	WorkOrderValue  *string  `json:"workOrderValue" validate:"omitempty,numeric"`
	Budget          *string  `json:"budget" validate:"omitempty,numeric"`
	ContractValue   *string  `json:"contractValue" validate:"omitempty,numeric"`
	ForecastRevenue *string  `json:"forecastRevenue" validate:"omitempty,numeric"`
	ForecastCost    *string  `json:"forecastCost" validate:"omitempty,numeric"`
	Commentary      *string  `json:"commentary" validate:"omitempty,max=5000"`
	Margin          *float64 `json:"margin" validate:"omitempty,gte=-10,lte=10"`
}

// ProjectResponse is the API shape of a project
type ProjectResponse struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	Client          string    `json:"client,omitempty"`
	BillingCategory string    `json:"billingCategory,omitempty"`
	ContractType    string    `json:"contractType,omitempty"`
	Status          string    `json:"status"`
	WorkType        string    `json:"workType"`
	PartnerName     string    `json:"partnerName,omitempty"`
	ManagerName     string    `json:"managerName,omitempty"`
	StartDate       *string   `json:"startDate,omitempty"`
	EndDate         *string   `json:"endDate,omitempty"`
	FiscalYear      string    `json:"fiscalYear,omitempty"`
	WorkOrderValue  string    `json:"workOrderValue"`
	Budget          string    `json:"budget"`
	ContractValue   string    `json:"contractValue"`
	ActualValue     string    `json:"actualValue"`
	Balance         string    `json:"balance"`
	ForecastRevenue string    `json:"forecastRevenue"`
	ForecastCost    string    `json:"forecastCost"`
	Margin          float64   `json:"margin"`
	ForecastMargin  float64   `json:"forecastMargin"`
	Commentary      string    `json:"commentary,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProjectMonthlyResponse is the API shape of one fiscal month of financials
type ProjectMonthlyResponse struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"projectId"`
	FiscalMonth int       `json:"fiscalMonth"`
	Revenue     string    `json:"revenue"`
	Cost        string    `json:"cost"`
	Profit      string    `json:"profit"`
}

// MilestoneResponse is the API shape of a project milestone
type MilestoneResponse struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"projectId"`
	Name      string    `json:"name"`
	DueDate   *string   `json:"dueDate,omitempty"`
	Status    string    `json:"status"`
	Amount    string    `json:"amount"`
}

// CostResponse is the API shape of a non-labour project cost entry
type CostResponse struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"projectId"`
	Category    string    `json:"category,omitempty"`
	CostDate    string    `json:"costDate"`
	Amount      string    `json:"amount"`
	Description string    `json:"description,omitempty"`
}

// KpiResponse is the API shape of a monthly project performance snapshot
type KpiResponse struct {
	ID            uuid.UUID `json:"id"`
	ProjectID     uuid.UUID `json:"projectId"`
	Month         string    `json:"month"`
	Revenue       string    `json:"revenue"`
	Cost          string    `json:"cost"`
	Margin        string    `json:"margin"`
	MarginPercent float64   `json:"marginPercent"`
	Hours         float64   `json:"hours"`
	Utilization   float64   `json:"utilization"`
}

// CxRatingResponse is the API shape of a client-experience rating
type CxRatingResponse struct {
	ID                uuid.UUID  `json:"id"`
	ProjectID         uuid.UUID  `json:"projectId"`
	EmployeeID        *uuid.UUID `json:"employeeId,omitempty"`
	Period            string     `json:"period"`
	Rating            int        `json:"rating"`
	IsProjectManager  bool       `json:"isProjectManager"`
	IsDeliveryManager bool       `json:"isDeliveryManager"`
	Comments          string     `json:"comments,omitempty"`
}

// ---------------------------------------------------------------------------
// Employees
// ---------------------------------------------------------------------------

// CreateEmployeeRequest is the request body for creating an employee
type CreateEmployeeRequest struct {
	Code         string `json:"code" validate:"omitempty,max=50"`
	FirstName    string `json:"firstName" validate:"required,max=100"`
	LastName     string `json:"lastName" validate:"omitempty,max=100"`
	Role         string `json:"role" validate:"omitempty,max=100"`
	Grade        string `json:"grade" validate:"omitempty,max=50"`
	Team         string `json:"team" validate:"omitempty,max=100"`
	BaseCostDay  string `json:"baseCostDay" validate:"omitempty,numeric"`
	GrossCostDay string `json:"grossCostDay" validate:"omitempty,numeric"`
	StartDate    string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	StaffType    string `json:"staffType" validate:"omitempty,oneof=permanent contractor consultant engineer"`
	Status       string `json:"status" validate:"omitempty,oneof=active inactive onboarding bench"`
}

// UpdateEmployeeRequest is the request body for updating an employee
type UpdateEmployeeRequest struct {
	FirstName    *string `json:"firstName" validate:"omitempty,max=100"`
	LastName     *string `json:"lastName" validate:"omitempty,max=100"`
	Role         *string `json:"role" validate:"omitempty,max=100"`
	Grade        *string `json:"grade" validate:"omitempty,max=50"`
	Team         *string `json:"team" validate:"omitempty,max=100"`
	BaseCostDay  *string `json:"baseCostDay" validate:"omitempty,numeric"`
	GrossCostDay *string `json:"grossCostDay" validate:"omitempty,numeric"`
	StartDate    *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	StaffType    *string `json:"staffType" validate:"omitempty,oneof=permanent contractor consultant engineer"`
	Status       *string `json:"status" validate:"omitempty,oneof=active inactive onboarding bench"`
}

// EmployeeResponse is the API shape of an employee
type EmployeeResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName,omitempty"`
	FullName     string    `json:"fullName"`
	Role         string    `json:"role,omitempty"`
	Grade        string    `json:"grade,omitempty"`
	Team         string    `json:"team,omitempty"`
	BaseCostDay  string    `json:"baseCostDay"`
	GrossCostDay string    `json:"grossCostDay"`
	StartDate    *string   `json:"startDate,omitempty"`
	EndDate      *string   `json:"endDate,omitempty"`
	StaffType    string    `json:"staffType"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ResourceCostResponse is the API shape of an employee's 12-month cost vector
type ResourceCostResponse struct {
	ID           uuid.UUID `json:"id"`
	EmployeeID   uuid.UUID `json:"employeeId"`
	Phase        string    `json:"phase"`
	FiscalYear   string    `json:"fiscalYear,omitempty"`
	MonthlyCosts []string  `json:"monthlyCosts"`
	TotalCost    string    `json:"totalCost"`
}

// ---------------------------------------------------------------------------
// Timesheets
// ---------------------------------------------------------------------------

// CreateTimesheetRequest is the request body for recording a timesheet row
type CreateTimesheetRequest struct {
	EmployeeID string `json:"employeeId" validate:"required,uuid"`
	ProjectID  string `json:"projectId" validate:"required,uuid"`
	WeekEnding string `json:"weekEnding" validate:"required,datetime=2006-01-02"`
	Hours      string `json:"hours" validate:"required,numeric"`
	Billable   *bool  `json:"billable"`
	Activity   string `json:"activity" validate:"omitempty,max=100"`
	Source     string `json:"source" validate:"omitempty,oneof=manual i-time dynamics excel-import"`
}

// TimesheetResponse is the API shape of a timesheet row
type TimesheetResponse struct {
	ID         uuid.UUID `json:"id"`
	EmployeeID uuid.UUID `json:"employeeId"`
	ProjectID  uuid.UUID `json:"projectId"`
	WeekEnding string    `json:"weekEnding"`
	Hours      string    `json:"hours"`
	Billable   bool      `json:"billable"`
	Activity   string    `json:"activity,omitempty"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ---------------------------------------------------------------------------
// Pipeline
// ---------------------------------------------------------------------------

// CreateOpportunityRequest is the request body for creating a pipeline opportunity
type CreateOpportunityRequest struct {
	Name               string   `json:"name" validate:"required,max=200"`
	Client             string   `json:"client" validate:"omitempty,max=200"`
	Classification     string   `json:"classification" validate:"required,oneof=C S DVF DF Q A"`
	FiscalYear         string   `json:"fiscalYear" validate:"required,len=5"`
	VatCategory        string   `json:"vatCategory" validate:"omitempty,max=100"`
	MonthlyRevenue     []string `json:"monthlyRevenue" validate:"omitempty,len=12,dive,numeric"`
	MonthlyGrossProfit []string `json:"monthlyGrossProfit" validate:"omitempty,len=12,dive,numeric"`
}

// UpdateOpportunityRequest is the request body for updating a pipeline opportunity
type UpdateOpportunityRequest struct {
	Name               *string  `json:"name" validate:"omitempty,max=200"`
	Client             *string  `json:"client" validate:"omitempty,max=200"`
	Classification     *string  `json:"classification" validate:"omitempty,oneof=C S DVF DF Q A"`
	VatCategory        *string  `json:"vatCategory" validate:"omitempty,max=100"`
	MonthlyRevenue     []string `json:"monthlyRevenue" validate:"omitempty,len=12,dive,numeric"`
	MonthlyGrossProfit []string `json:"monthlyGrossProfit" validate:"omitempty,len=12,dive,numeric"`
}

// OpportunityResponse is the API shape of a pipeline opportunity
type OpportunityResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Client             string    `json:"client,omitempty"`
	Classification     string    `json:"classification"`
	FiscalYear         string    `json:"fiscalYear"`
	VatCategory        string    `json:"vatCategory,omitempty"`
	WinProbability     int       `json:"winProbability"`
	MonthlyRevenue     []string  `json:"monthlyRevenue"`
	MonthlyGrossProfit []string  `json:"monthlyGrossProfit"`
	TotalRevenue       string    `json:"totalRevenue"`
	TotalGrossProfit   string    `json:"totalGrossProfit"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// PipelineSummaryResponse aggregates the pipeline by classification
type PipelineSummaryResponse struct {
	FiscalYear      string                `json:"fiscalYear"`
	TotalRevenue    string                `json:"totalRevenue"`
	WeightedRevenue string                `json:"weightedRevenue"`
	ByClass         []PipelineClassBucket `json:"byClassification"`
}

// PipelineClassBucket is one classification bucket of the pipeline summary
type PipelineClassBucket struct {
	Classification  string `json:"classification"`
	WinProbability  int    `json:"winProbability"`
	Count           int    `json:"count"`
	TotalRevenue    string `json:"totalRevenue"`
	WeightedRevenue string `json:"weightedRevenue"`
}

// ---------------------------------------------------------------------------
// Scenarios
// ---------------------------------------------------------------------------

// CreateScenarioRequest is the request body for creating a scenario
type CreateScenarioRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// CreateScenarioAdjustmentRequest adds an override to a scenario
type CreateScenarioAdjustmentRequest struct {
	OpportunityID          string  `json:"opportunityId" validate:"omitempty,uuid"`
	WinProbabilityOverride *int    `json:"winProbabilityOverride" validate:"omitempty,gte=0,lte=100"`
	RevenueOverride        *string `json:"revenueOverride" validate:"omitempty,numeric"`
	MonthShift             int     `json:"monthShift" validate:"gte=-12,lte=12"`
}

// ScenarioResponse is the API shape of a scenario with its adjustments
type ScenarioResponse struct {
	ID          uuid.UUID                    `json:"id"`
	Name        string                       `json:"name"`
	Description string                       `json:"description,omitempty"`
	Adjustments []ScenarioAdjustmentResponse `json:"adjustments"`
	CreatedAt   time.Time                    `json:"createdAt"`
}

// ScenarioAdjustmentResponse is the API shape of one scenario override
type ScenarioAdjustmentResponse struct {
	ID                     uuid.UUID  `json:"id"`
	OpportunityID          *uuid.UUID `json:"opportunityId,omitempty"`
	WinProbabilityOverride *int       `json:"winProbabilityOverride,omitempty"`
	RevenueOverride        *string    `json:"revenueOverride,omitempty"`
	MonthShift             int        `json:"monthShift"`
}

// ScenarioForecastResponse is the weighted monthly revenue projection of a
// scenario applied over the pipeline for one fiscal year
type ScenarioForecastResponse struct {
	ScenarioID      uuid.UUID `json:"scenarioId"`
	FiscalYear      string    `json:"fiscalYear"`
	MonthlyWeighted []string  `json:"monthlyWeighted"` // 12 decimal strings, July..June
	TotalWeighted   string    `json:"totalWeighted"`
}

// ---------------------------------------------------------------------------
// Resource plans
// ---------------------------------------------------------------------------

// UpsertResourcePlanRequest writes a forward allocation for one employee,
// project and calendar month
type UpsertResourcePlanRequest struct {
	ProjectID         string  `json:"projectId" validate:"required,uuid"`
	EmployeeID        string  `json:"employeeId" validate:"required,uuid"`
	Month             string  `json:"month" validate:"required,datetime=2006-01"`
	AllocationPercent float64 `json:"allocationPercent" validate:"gte=0,lte=200"`
	PlannedHours      string  `json:"plannedHours" validate:"omitempty,numeric"`
	PlannedDays       string  `json:"plannedDays" validate:"omitempty,numeric"`
}

// ResourcePlanResponse is the API shape of a resource plan row
type ResourcePlanResponse struct {
	ID                uuid.UUID `json:"id"`
	ProjectID         uuid.UUID `json:"projectId"`
	EmployeeID        uuid.UUID `json:"employeeId"`
	Month             string    `json:"month"`
	AllocationPercent float64   `json:"allocationPercent"`
	PlannedHours      string    `json:"plannedHours"`
	PlannedDays       string    `json:"plannedDays"`
}

// ---------------------------------------------------------------------------
// Utilization
// ---------------------------------------------------------------------------

// WeeklyUtilizationResponse is one row of the stored weekly actuals feed
type WeeklyUtilizationResponse struct {
	EmployeeID    uuid.UUID `json:"employee_id"`
	WeekEnding    string    `json:"week_ending"`
	TotalHours    float64   `json:"total_hours"`
	BillableHours float64   `json:"billable_hours"`
	CostValue     string    `json:"cost_value"`
	SaleValue     string    `json:"sale_value"`
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

// PaginatedResponse wraps a list endpoint's page of data
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// DashboardSummaryResponse is the headline panel of the portfolio dashboard
type DashboardSummaryResponse struct {
	ActiveProjects   int     `json:"activeProjects"`
	ActiveEmployees  int     `json:"activeEmployees"`
	AverageMargin    float64 `json:"averageMargin"`
	BenchPercentage  float64 `json:"benchPercentage"`
	PipelineWeighted string  `json:"pipelineWeighted"`
	OverutilisedRate float64 `json:"overutilisedRate"`
}
