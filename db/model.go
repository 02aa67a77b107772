package db

import "time"

// ===========================
// PROFILE & APPROVAL MODELS
// ===========================

// ApprovalStatus is the tri-state gate on every owner account.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Valid reports whether s is one of the three known statuses.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// Profile is the per-identity record. ID equals the Supabase auth user id (1:1).
type Profile struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	FullName       string         `json:"full_name"`
	Phone          string         `json:"phone,omitempty"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`

	// KYC fields collected during signup
	NationalID      string `json:"national_id,omitempty"`
	IDDocumentPath  string `json:"id_document_path,omitempty"`
	PhysicalAddress string `json:"physical_address,omitempty"`
	MpesaNumber     string `json:"mpesa_number,omitempty"`

	FCMToken string `json:"fcm_token,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated on admin listings
	Roles []string `json:"roles,omitempty"`
}

// UserRole is one (user, role) assignment. A user may hold several.
type UserRole struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"` // super_admin, property_owner
	CreatedAt time.Time `json:"created_at"`
}

// AdminActivityLog is an insert-only audit record of admin actions.
type AdminActivityLog struct {
	ID              string    `json:"id"`
	AdminID         string    `json:"admin_id"`
	Action          string    `json:"action"`
	TargetUserID    string    `json:"target_user_id"`
	TargetUserEmail string    `json:"target_user_email"`
	Details         string    `json:"details,omitempty"` // JSON string
	CreatedAt       time.Time `json:"created_at"`
}

// ===========================
// OWNED-RESOURCE CHAIN
// ===========================

// Property is the root of the ownership chain.
type Property struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// For API responses
	UnitCount int `json:"unit_count,omitempty"`
}

// Unit belongs to a property.
type Unit struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	UnitNumber  string    `json:"unit_number"`
	UnitType    string    `json:"unit_type"` // single, bedsitter, one_bedroom, two_bedroom
	MonthlyRent float64   `json:"monthly_rent"`
	Status      string    `json:"status"` // vacant, occupied, maintenance
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Populated via JOINs
	PropertyName string `json:"property_name,omitempty"`
}

// Tenant is a renter record owned directly by a property owner.
type Tenant struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone"`
	NationalID string    `json:"national_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Lease ties a tenant to a unit for a period.
type Lease struct {
	ID          string     `json:"id"`
	UnitID      string     `json:"unit_id"`
	TenantID    string     `json:"tenant_id"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	MonthlyRent float64    `json:"monthly_rent"`
	DepositPaid float64    `json:"deposit_paid"`
	Status      string     `json:"status"` // active, ended, terminated
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Populated via JOINs
	TenantName   string `json:"tenant_name,omitempty"`
	UnitNumber   string `json:"unit_number,omitempty"`
	PropertyName string `json:"property_name,omitempty"`
}

// Payment records money received against a lease.
type Payment struct {
	ID            string    `json:"id"`
	LeaseID       string    `json:"lease_id"`
	Amount        float64   `json:"amount"`
	PaymentDate   time.Time `json:"payment_date"`
	PaymentMethod string    `json:"payment_method"` // mpesa, cash, bank_transfer
	Reference     string    `json:"reference,omitempty"`
	PeriodMonth   int       `json:"period_month"`
	PeriodYear    int       `json:"period_year"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`

	// Populated via JOINs (receipt display)
	TenantName   string `json:"tenant_name,omitempty"`
	UnitNumber   string `json:"unit_number,omitempty"`
	PropertyName string `json:"property_name,omitempty"`
}

// MaintenanceRequest is raised against a unit.
type MaintenanceRequest struct {
	ID          string     `json:"id"`
	UnitID      string     `json:"unit_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority"` // low, medium, high
	Status      string     `json:"status"`   // open, in_progress, resolved
	ReportedBy  string     `json:"reported_by,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Populated via JOINs
	UnitNumber   string `json:"unit_number,omitempty"`
	PropertyName string `json:"property_name,omitempty"`
}

// ===========================
// REQUEST MODELS
// ===========================

type UpdateProfileRequest struct {
	FullName        *string `json:"full_name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	NationalID      *string `json:"national_id,omitempty"`
	PhysicalAddress *string `json:"physical_address,omitempty"`
	MpesaNumber     *string `json:"mpesa_number,omitempty"`
}

type SetApprovalStatusRequest struct {
	Status ApprovalStatus `json:"status" binding:"required"`
}

type CreatePropertyRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Description string `json:"description"`
}

type UpdatePropertyRequest struct {
	Name        *string `json:"name,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CreateUnitRequest struct {
	PropertyID  string  `json:"property_id" binding:"required"`
	UnitNumber  string  `json:"unit_number" binding:"required"`
	UnitType    string  `json:"unit_type" binding:"required"`
	MonthlyRent float64 `json:"monthly_rent" binding:"required"`
}

type UpdateUnitRequest struct {
	UnitNumber  *string  `json:"unit_number,omitempty"`
	UnitType    *string  `json:"unit_type,omitempty"`
	MonthlyRent *float64 `json:"monthly_rent,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

type CreateTenantRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email"`
	Phone      string `json:"phone" binding:"required"`
	NationalID string `json:"national_id"`
}

type UpdateTenantRequest struct {
	FullName   *string `json:"full_name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	NationalID *string `json:"national_id,omitempty"`
}

type CreateLeaseRequest struct {
	UnitID      string     `json:"unit_id" binding:"required"`
	TenantID    string     `json:"tenant_id" binding:"required"`
	StartDate   time.Time  `json:"start_date" binding:"required"`
	EndDate     *time.Time `json:"end_date"`
	MonthlyRent float64    `json:"monthly_rent" binding:"required"`
	DepositPaid float64    `json:"deposit_paid"`
}

type UpdateLeaseRequest struct {
	EndDate     *time.Time `json:"end_date,omitempty"`
	MonthlyRent *float64   `json:"monthly_rent,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

type CreatePaymentRequest struct {
	LeaseID       string    `json:"lease_id" binding:"required"`
	Amount        float64   `json:"amount" binding:"required"`
	PaymentDate   time.Time `json:"payment_date" binding:"required"`
	PaymentMethod string    `json:"payment_method" binding:"required"`
	Reference     string    `json:"reference"`
	PeriodMonth   int       `json:"period_month" binding:"required"`
	PeriodYear    int       `json:"period_year" binding:"required"`
	Notes         string    `json:"notes"`
}

type CreateMaintenanceRequest struct {
	UnitID      string `json:"unit_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type UpdateMaintenanceRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ===========================
// DASHBOARD MODELS
// ===========================

// OwnerDashboard is the merged result of the independent dashboard queries.
type OwnerDashboard struct {
	PropertyCount     int     `json:"property_count"`
	UnitCount         int     `json:"unit_count"`
	OccupiedUnits     int     `json:"occupied_units"`
	VacantUnits       int     `json:"vacant_units"`
	TenantCount       int     `json:"tenant_count"`
	ActiveLeases      int     `json:"active_leases"`
	PaymentsThisMonth float64 `json:"payments_this_month"`
	OpenMaintenance   int     `json:"open_maintenance"`
}

// AdminDashboard extends the owner view with platform-wide numbers.
type AdminDashboard struct {
	TotalOwners      int `json:"total_owners"`
	PendingApprovals int `json:"pending_approvals"`
	TotalProperties  int `json:"total_properties"`
	TotalUnits       int `json:"total_units"`
	TotalLeases      int `json:"total_leases"`
}
