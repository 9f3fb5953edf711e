package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the ID client-side when the database does not
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ProjectStatus represents the lifecycle status of a project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusClosed    ProjectStatus = "closed"
)

// IsValid checks if the ProjectStatus is a valid enum value
func (ps ProjectStatus) IsValid() bool {
	switch ps {
	case ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusClosed:
		return true
	}
	return false
}

// BillingCategory is the commercial model of a project as labelled in the
// source spreadsheets ("Fixed" or "T&M")
type BillingCategory string

const (
	BillingCategoryFixed BillingCategory = "Fixed"
	BillingCategoryTM    BillingCategory = "T&M"
)

// ContractType is the normalized contract classification derived from the
// billing category column during import
type ContractType string

const (
	ContractTypeFixedPrice    ContractType = "fixed_price"
	ContractTypeTimeMaterials ContractType = "time_materials"
)

// WorkType distinguishes client-billable projects from internal markers
// (leave codes, bench codes) that arrive through timesheet imports
type WorkType string

const (
	WorkTypeClient   WorkType = "Client"
	WorkTypeInternal WorkType = "Internal"
)

// Project represents an engagement tracked by the firm
type Project struct {
	BaseModel
	Code            string          `gorm:"type:varchar(50);unique;index;column:code"`
	Name            string          `gorm:"type:varchar(200);not null;index"`
	Client          string          `gorm:"type:varchar(200);index"`
	BillingCategory BillingCategory `gorm:"type:varchar(50);column:billing_category"`
	ContractType    ContractType    `gorm:"type:varchar(50);column:contract_type"`
	Status          ProjectStatus   `gorm:"type:varchar(50);not null;default:'active';index"`
	WorkType        WorkType        `gorm:"type:varchar(50);not null;default:'Client';column:work_type"`
	PartnerName     string          `gorm:"type:varchar(200);column:partner_name"`
	ManagerName     string          `gorm:"type:varchar(200);column:manager_name"`
	StartDate       *time.Time      `gorm:"type:date;column:start_date"`
	EndDate         *time.Time      `gorm:"type:date;column:end_date"`
	FiscalYear      string          `gorm:"type:varchar(10);index;column:fiscal_year"`
	WorkOrderValue  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:work_order_value"`
	Budget          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	ContractValue   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:contract_value"`
	ActualValue     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:actual_value"`
	Balance         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	ForecastRevenue decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:forecast_revenue"`
	ForecastCost    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:forecast_cost"`
	Margin          float64         `gorm:"type:decimal(8,4);not null;default:0"` // fraction, not percent
	ForecastMargin  float64         `gorm:"type:decimal(8,4);not null;default:0;column:forecast_margin"`
	Commentary      string          `gorm:"type:text"`
	Monthlies       []ProjectMonthly `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Milestones      []Milestone      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Costs           []Cost           `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Kpis            []Kpi            `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Timesheets      []Timesheet      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	ResourcePlans   []ResourcePlan   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	CxRatings       []CxRating       `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Forecasts       []Forecast       `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// ProjectMonthly holds one fiscal month of revenue/cost/profit for a project.
// FiscalMonth runs 1..12 from July (fiscal year start) through June.
// Profit is computed and stored at write time: profit = revenue - cost.
type ProjectMonthly struct {
	BaseModel
	ProjectID   uuid.UUID       `gorm:"type:uuid;not null;index;column:project_id"`
	Project     *Project        `gorm:"foreignKey:ProjectID"`
	FiscalMonth int             `gorm:"not null;column:fiscal_month"`
	Revenue     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Cost        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Profit      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
}

// TableName overrides the default pluralization
func (ProjectMonthly) TableName() string {
	return "project_monthlies"
}

// StaffType represents the employment category of an employee
type StaffType string

const (
	StaffTypePermanent  StaffType = "permanent"
	StaffTypeContractor StaffType = "contractor"
	StaffTypeConsultant StaffType = "consultant"
	StaffTypeEngineer   StaffType = "engineer"
)

// EmployeeStatus represents the working status of an employee
type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "active"
	EmployeeStatusInactive   EmployeeStatus = "inactive"
	EmployeeStatusOnboarding EmployeeStatus = "onboarding"
	EmployeeStatusBench      EmployeeStatus = "bench"
)

// IsValid checks if the EmployeeStatus is a valid enum value
func (es EmployeeStatus) IsValid() bool {
	switch es {
	case EmployeeStatusActive, EmployeeStatusInactive, EmployeeStatusOnboarding, EmployeeStatusBench:
		return true
	}
	return false
}

// Employee represents a member of staff
type Employee struct {
	BaseModel
	Code          string          `gorm:"type:varchar(50);unique;index"`
	FirstName     string          `gorm:"type:varchar(100);not null;column:first_name"`
	LastName      string          `gorm:"type:varchar(100);column:last_name"`
	Role          string          `gorm:"type:varchar(100)"`
	Grade         string          `gorm:"type:varchar(50)"`
	Team          string          `gorm:"type:varchar(100);index"`
	BaseCostDay   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:base_cost_day"`
	GrossCostDay  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:gross_cost_day"`
	StartDate     *time.Time      `gorm:"type:date;column:start_date"`
	EndDate       *time.Time      `gorm:"type:date;column:end_date"`
	StaffType     StaffType       `gorm:"type:varchar(50);not null;default:'permanent';column:staff_type;index"`
	Status        EmployeeStatus  `gorm:"type:varchar(50);not null;default:'active';index"`
	Timesheets    []Timesheet     `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	ResourcePlans []ResourcePlan  `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	ResourceCosts []ResourceCost  `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
}

// FullName returns the employee's full name
func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// TimesheetSource tags where a timesheet row came from
type TimesheetSource string

const (
	TimesheetSourceManual      TimesheetSource = "manual"
	TimesheetSourceITime       TimesheetSource = "i-time"
	TimesheetSourceDynamics    TimesheetSource = "dynamics"
	TimesheetSourceExcelImport TimesheetSource = "excel-import"
)

// Timesheet represents hours worked by an employee on a project for one week
type Timesheet struct {
	BaseModel
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;index;column:employee_id"`
	Employee   *Employee       `gorm:"foreignKey:EmployeeID"`
	ProjectID  uuid.UUID       `gorm:"type:uuid;not null;index;column:project_id"`
	Project    *Project        `gorm:"foreignKey:ProjectID"`
	WeekEnding time.Time       `gorm:"type:date;not null;index;column:week_ending"`
	Hours      decimal.Decimal `gorm:"type:decimal(8,2);not null;default:0"`
	Billable   bool            `gorm:"not null;default:true"`
	Activity   string          `gorm:"type:varchar(100)"`
	Source     TimesheetSource `gorm:"type:varchar(50);not null;default:'manual'"`
}

// ResourcePlan is a forward-looking monthly allocation of an employee to a
// project, distinct from actual Timesheet records
type ResourcePlan struct {
	BaseModel
	ProjectID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_plan_proj_emp_month;column:project_id"`
	Project           *Project        `gorm:"foreignKey:ProjectID"`
	EmployeeID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_plan_proj_emp_month;index;column:employee_id"`
	Employee          *Employee       `gorm:"foreignKey:EmployeeID"`
	Month             time.Time       `gorm:"type:date;not null;uniqueIndex:idx_plan_proj_emp_month;index"` // first day of calendar month
	AllocationPercent float64         `gorm:"type:decimal(5,2);not null;default:0;column:allocation_percent"`
	PlannedHours      decimal.Decimal `gorm:"type:decimal(8,2);not null;default:0;column:planned_hours"`
	PlannedDays       decimal.Decimal `gorm:"type:decimal(8,2);not null;default:0;column:planned_days"`
}

// Classification is the pipeline opportunity stage, ordered by decreasing
// win probability from C (contracted) to A (activity)
type Classification string

const (
	ClassificationC   Classification = "C"
	ClassificationS   Classification = "S"
	ClassificationDVF Classification = "DVF"
	ClassificationDF  Classification = "DF"
	ClassificationQ   Classification = "Q"
	ClassificationA   Classification = "A"
)

// winRates is the fixed classification -> win probability lookup (percent).
// The weighting is a convention, not a fitted model.
var winRates = map[Classification]int{
	ClassificationC:   100,
	ClassificationS:   90,
	ClassificationDVF: 75,
	ClassificationDF:  50,
	ClassificationQ:   25,
	ClassificationA:   10,
}

// WinProbability returns the fixed win probability for the classification
// in percent. Unknown classifications weigh zero.
func (c Classification) WinProbability() int {
	return winRates[c]
}

// IsValid checks if the Classification is a valid enum value
func (c Classification) IsValid() bool {
	_, ok := winRates[c]
	return ok
}

// PipelineOpportunity is a sales opportunity with twelve months of revenue
// and gross-profit figures for one fiscal year. Revenue rows and "(GP)" rows
// are independent unlinked records by design: the Gross Profit sheet creates
// its own rows rather than merging into the revenue-sheet rows.
type PipelineOpportunity struct {
	BaseModel
	Name               string          `gorm:"type:varchar(200);not null;index"`
	Client             string          `gorm:"type:varchar(200)"`
	Classification     Classification  `gorm:"type:varchar(10);not null;index"`
	FiscalYear         string          `gorm:"type:varchar(10);not null;index;column:fiscal_year"`
	VatCategory        string          `gorm:"type:varchar(100);column:vat_category"`
	WinProbability     int             `gorm:"not null;default:0;column:win_probability"`
	MonthlyRevenue     pq.StringArray  `gorm:"type:text[];column:monthly_revenue"`      // 12 decimal strings, July..June
	MonthlyGrossProfit pq.StringArray  `gorm:"type:text[];column:monthly_gross_profit"` // 12 decimal strings, July..June
	Adjustments        []ScenarioAdjustment `gorm:"foreignKey:OpportunityID"`
}

// TotalRevenue sums the twelve monthly revenue figures with decimal precision
func (p *PipelineOpportunity) TotalRevenue() decimal.Decimal {
	return sumDecimalStrings(p.MonthlyRevenue)
}

// TotalGrossProfit sums the twelve monthly gross-profit figures
func (p *PipelineOpportunity) TotalGrossProfit() decimal.Decimal {
	return sumDecimalStrings(p.MonthlyGrossProfit)
}

func sumDecimalStrings(values []string) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		d, err := decimal.NewFromString(v)
		if err != nil {
			continue
		}
		total = total.Add(d)
	}
	return total
}

// Scenario is a saved set of what-if assumptions applied over the pipeline
type Scenario struct {
	BaseModel
	Name        string               `gorm:"type:varchar(200);not null"`
	Description string               `gorm:"type:text"`
	Adjustments []ScenarioAdjustment `gorm:"foreignKey:ScenarioID;constraint:OnDelete:CASCADE"`
}

// ScenarioAdjustment overrides assumptions for one opportunity (or, when
// OpportunityID is nil, for every opportunity in the scenario's scope)
type ScenarioAdjustment struct {
	BaseModel
	ScenarioID             uuid.UUID            `gorm:"type:uuid;not null;index;column:scenario_id"`
	Scenario               *Scenario            `gorm:"foreignKey:ScenarioID"`
	OpportunityID          *uuid.UUID           `gorm:"type:uuid;index;column:opportunity_id"`
	Opportunity            *PipelineOpportunity `gorm:"foreignKey:OpportunityID"`
	WinProbabilityOverride *int                 `gorm:"column:win_probability_override"`
	RevenueOverride        *decimal.Decimal     `gorm:"type:decimal(15,2);column:revenue_override"`
	MonthShift             int                  `gorm:"not null;default:0;column:month_shift"`
}

// MilestoneStatus represents the status of a project milestone
type MilestoneStatus string

const (
	MilestoneStatusPlanned   MilestoneStatus = "planned"
	MilestoneStatusDue       MilestoneStatus = "due"
	MilestoneStatusInvoiced  MilestoneStatus = "invoiced"
	MilestoneStatusCompleted MilestoneStatus = "completed"
)

// Milestone is a billing or delivery milestone on a project
type Milestone struct {
	BaseModel
	ProjectID uuid.UUID       `gorm:"type:uuid;not null;index;column:project_id"`
	Project   *Project        `gorm:"foreignKey:ProjectID"`
	Name      string          `gorm:"type:varchar(200);not null"`
	DueDate   *time.Time      `gorm:"type:date;column:due_date"`
	Status    MilestoneStatus `gorm:"type:varchar(50);not null;default:'planned'"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
}

// Cost is a non-labour cost entry booked against a project
type Cost struct {
	BaseModel
	ProjectID   uuid.UUID       `gorm:"type:uuid;not null;index;column:project_id"`
	Project     *Project        `gorm:"foreignKey:ProjectID"`
	Category    string          `gorm:"type:varchar(100)"`
	CostDate    time.Time       `gorm:"type:date;not null;column:cost_date"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Description string          `gorm:"type:varchar(500)"`
}

// Kpi holds a monthly performance snapshot for a project, derived from the
// Project Hours sheet. Utilization is hours / 2080 annual standard hours.
type Kpi struct {
	BaseModel
	ProjectID     uuid.UUID       `gorm:"type:uuid;not null;index;column:project_id"`
	Project       *Project        `gorm:"foreignKey:ProjectID"`
	Month         time.Time       `gorm:"type:date;not null;index"`
	Revenue       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Cost          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Margin        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	MarginPercent float64         `gorm:"type:decimal(8,2);not null;default:0;column:margin_percent"`
	Hours         float64         `gorm:"type:decimal(10,2);not null;default:0"`
	Utilization   float64         `gorm:"type:decimal(8,2);not null;default:0"`
}

// Forecast is a forward monthly revenue/cost estimate for a project
type Forecast struct {
	BaseModel
	ProjectID uuid.UUID       `gorm:"type:uuid;not null;index;column:project_id"`
	Project   *Project        `gorm:"foreignKey:ProjectID"`
	Month     time.Time       `gorm:"type:date;not null;index"`
	Revenue   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Cost      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
}

// RateCard maps a role/grade to a standard day rate
type RateCard struct {
	BaseModel
	Role          string          `gorm:"type:varchar(100);not null"`
	Grade         string          `gorm:"type:varchar(50)"`
	DayRate       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:day_rate"`
	EffectiveFrom time.Time       `gorm:"type:date;not null;column:effective_from"`
}

// ReferenceData is a generic lookup row (teams, grades, activity codes)
type ReferenceData struct {
	BaseModel
	Category string `gorm:"type:varchar(100);not null;index"`
	Key      string `gorm:"type:varchar(100);not null;column:key"`
	Value    string `gorm:"type:varchar(500)"`
}

// TableName overrides the default pluralization
func (ReferenceData) TableName() string {
	return "reference_data"
}

// CxRating is a client-experience rating captured against a project and,
// optionally, the responsible employee
type CxRating struct {
	BaseModel
	ProjectID         uuid.UUID  `gorm:"type:uuid;not null;index;column:project_id"`
	Project           *Project   `gorm:"foreignKey:ProjectID"`
	EmployeeID        *uuid.UUID `gorm:"type:uuid;index;column:employee_id"`
	Employee          *Employee  `gorm:"foreignKey:EmployeeID"`
	Period            time.Time  `gorm:"type:date;not null"`
	Rating            int        `gorm:"not null"`
	IsProjectManager  bool       `gorm:"not null;default:false;column:is_project_manager"`
	IsDeliveryManager bool       `gorm:"not null;default:false;column:is_delivery_manager"`
	Comments          string     `gorm:"type:text"`
}

// ResourceCost holds a 12-month cost vector for an employee within one
// phase (overall, or a named sub-phase from the A&F sheet variant).
// TotalCost is stored redundantly alongside the monthly values.
type ResourceCost struct {
	BaseModel
	EmployeeID   uuid.UUID       `gorm:"type:uuid;not null;index;column:employee_id"`
	Employee     *Employee       `gorm:"foreignKey:EmployeeID"`
	Phase        string          `gorm:"type:varchar(100);not null;default:'overall'"`
	FiscalYear   string          `gorm:"type:varchar(10);column:fiscal_year"`
	MonthlyCosts pq.StringArray  `gorm:"type:text[];column:monthly_costs"` // 12 decimal strings, July..June
	TotalCost    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:total_cost"`
}

// WeeklyUtilization is the stored weekly actual-hours aggregate for one
// employee, fed either from timesheet imports or the timesheet warehouse.
// It is the ground-truth input of the utilization projection engine.
type WeeklyUtilization struct {
	BaseModel
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_weekly_emp_week;column:employee_id"`
	Employee      *Employee       `gorm:"foreignKey:EmployeeID"`
	WeekEnding    time.Time       `gorm:"type:date;not null;uniqueIndex:idx_weekly_emp_week;column:week_ending"`
	TotalHours    float64         `gorm:"type:decimal(8,2);not null;default:0;column:total_hours"`
	BillableHours float64         `gorm:"type:decimal(8,2);not null;default:0;column:billable_hours"`
	CostValue     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:cost_value"`
	SaleValue     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:sale_value"`
}

// TableName overrides the default pluralization
func (WeeklyUtilization) TableName() string {
	return "weekly_utilizations"
}

// AuditAction represents the type of audit action
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionImport AuditAction = "import"
)

// AuditLog records a mutating API request or an import run
type AuditLog struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key"`
	UserID      string      `gorm:"type:varchar(100);column:user_id"`
	UserName    string      `gorm:"type:varchar(200);column:user_name"`
	Action      AuditAction `gorm:"type:varchar(50);not null"`
	EntityType  string      `gorm:"type:varchar(50);not null;column:entity_type"`
	EntityID    *uuid.UUID  `gorm:"type:uuid;column:entity_id"`
	EntityName  string      `gorm:"type:varchar(200);column:entity_name"`
	Detail      string      `gorm:"type:text"`
	RequestID   string      `gorm:"type:varchar(100);column:request_id"`
	IPAddress   string      `gorm:"type:varchar(100);column:ip_address"`
	PerformedAt time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP;column:performed_at"`
	CreatedAt   time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the ID client-side when the database does not
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
