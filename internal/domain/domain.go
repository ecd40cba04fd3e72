// Package domain defines the marketplace entities stored in the shared
// table and the status machines governing their lifecycles.
package domain

// Address is the common postal address shape.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

// VendorProfile is a registered vendor company.
type VendorProfile struct {
	VendorID           string   `json:"vendorId"`
	CompanyName        string   `json:"companyName" validate:"required"`
	Email              string   `json:"email" validate:"required,email"`
	PhoneNumber        string   `json:"phoneNumber"`
	Address            Address  `json:"address"`
	Certifications     []string `json:"certifications"`
	VerificationStatus string   `json:"verificationStatus"`
	Rating             float64  `json:"rating"`
	TotalReviews       int      `json:"totalReviews"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}

// Vendor verification states.
const (
	VerificationPending  = "PENDING"
	VerificationVerified = "VERIFIED"
	VerificationRejected = "REJECTED"
)

// Pricing is the commercial part of a product listing.
type Pricing struct {
	BasePrice  float64 `json:"basePrice"`
	Currency   string  `json:"currency"`
	Negotiable bool    `json:"negotiable"`
}

// Warranty terms attached to a product.
type Warranty struct {
	Duration int    `json:"duration"`
	Unit     string `json:"unit"`
	Terms    string `json:"terms"`
}

// Product is a machine or part listed by a vendor.
type Product struct {
	ProductID      string                 `json:"productId"`
	VendorID       string                 `json:"vendorId"`
	ProductName    string                 `json:"productName" validate:"required"`
	Category       string                 `json:"category" validate:"required"`
	Subcategory    string                 `json:"subcategory,omitempty"`
	Specifications map[string]interface{} `json:"specifications"`
	Pricing        Pricing                `json:"pricing"`
	Availability   string                 `json:"availability"`
	Images         []string               `json:"images"`
	Certifications []string               `json:"certifications"`
	Warranty       Warranty               `json:"warranty"`
	CreatedAt      string                 `json:"createdAt"`
	UpdatedAt      string                 `json:"updatedAt"`
}

// Product availability states.
const (
	AvailabilityInStock    = "IN_STOCK"
	AvailabilityOutOfStock = "OUT_OF_STOCK"
	AvailabilityPreOrder   = "PRE_ORDER"
)

// CommercialTerms of a tender request.
type CommercialTerms struct {
	Budget       float64 `json:"budget"`
	Currency     string  `json:"currency"`
	PaymentTerms string  `json:"paymentTerms"`
}

// Tender is a procurement request raised by a manufacturer.
type Tender struct {
	TenderID        string                 `json:"tenderId"`
	BuyerID         string                 `json:"buyerId"`
	Title           string                 `json:"title" validate:"required"`
	Description     string                 `json:"description"`
	Specifications  map[string]interface{} `json:"specifications"`
	CommercialTerms CommercialTerms        `json:"commercialTerms"`
	Deadline        string                 `json:"deadline"`
	Status          string                 `json:"status"`
	CreatedAt       string                 `json:"createdAt"`
	UpdatedAt       string                 `json:"updatedAt"`
}

// Bid is a vendor's offer against a tender.
type Bid struct {
	BidID             string  `json:"bidId"`
	TenderID          string  `json:"tenderId"`
	VendorID          string  `json:"vendorId"`
	BidAmount         float64 `json:"bidAmount" validate:"gt=0"`
	Currency          string  `json:"currency"`
	TechnicalProposal string  `json:"technicalProposal"`
	CommercialTerms   string  `json:"commercialTerms"`
	ValidUntil        string  `json:"validUntil"`
	Status            string  `json:"status"`
	SubmittedAt       string  `json:"submittedAt"`
}

// Order is a confirmed purchase between a buyer and a vendor.
type Order struct {
	OrderID         string  `json:"orderId"`
	BuyerID         string  `json:"buyerId"`
	VendorID        string  `json:"vendorId"`
	ProductID       string  `json:"productId"`
	Quantity        float64 `json:"quantity"`
	TotalAmount     float64 `json:"totalAmount" validate:"gte=0"`
	Currency        string  `json:"currency"`
	Status          string  `json:"status"`
	ShippingAddress Address `json:"shippingAddress"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// WorkOrder is a maintenance job on a machine.
type WorkOrder struct {
	WorkOrderID        string   `json:"workOrderId"`
	MachineID          string   `json:"machineId" validate:"required"`
	ScheduleID         string   `json:"scheduleId,omitempty"`
	MaintenanceType    string   `json:"maintenanceType"`
	AssignedTechnician string   `json:"assignedTechnician"`
	ScheduledDate      string   `json:"scheduledDate"`
	CompletedDate      string   `json:"completedDate,omitempty"`
	Status             string   `json:"status"`
	Findings           string   `json:"findings,omitempty"`
	PartsUsed          []string `json:"partsUsed,omitempty"`
	Cost               float64  `json:"cost,omitempty"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt,omitempty"`
}

// Maintenance types.
const (
	MaintenancePreventive = "PREVENTIVE"
	MaintenanceCorrective = "CORRECTIVE"
	MaintenancePredictive = "PREDICTIVE"
	MaintenanceEmergency  = "EMERGENCY"
)

// MaintenanceSchedule is a recurring maintenance plan for a machine.
type MaintenanceSchedule struct {
	ScheduleID      string `json:"scheduleId"`
	MachineID       string `json:"machineId"`
	MaintenanceType string `json:"maintenanceType"`
	Frequency       string `json:"frequency"`
	NextDueDate     string `json:"nextDueDate"`
	Instructions    string `json:"instructions"`
	Priority        string `json:"priority"`
	CreatedAt       string `json:"createdAt"`
}

// Schedule priorities.
const (
	PriorityLow      = "LOW"
	PriorityMedium   = "MEDIUM"
	PriorityHigh     = "HIGH"
	PriorityCritical = "CRITICAL"
)

// BehaviorEvent records one user interaction for analytics.
type BehaviorEvent struct {
	BehaviorID   string                 `json:"behaviorId"`
	UserID       string                 `json:"userId"`
	SessionID    string                 `json:"sessionId"`
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resourceType"`
	ResourceID   string                 `json:"resourceId"`
	Metadata     map[string]interface{} `json:"metadata"`
	Timestamp    string                 `json:"timestamp"`
}

// Report is a generated analytics report.
type Report struct {
	ReportID    string                 `json:"reportId"`
	ReportType  string                 `json:"reportType"`
	Period      string                 `json:"period"`
	Metrics     map[string]interface{} `json:"metrics"`
	Insights    []string               `json:"insights"`
	GeneratedAt string                 `json:"generatedAt"`
	GeneratedBy string                 `json:"generatedBy"`
}

// Report types.
const (
	ReportProcurement       = "PROCUREMENT"
	ReportVendorPerformance = "VENDOR_PERFORMANCE"
	ReportMarketTrends      = "MARKET_TRENDS"
	ReportCostOptimization  = "COST_OPTIMIZATION"
)
