// Package keys owns the single-table key scheme. Every partition/sort key
// and secondary-index projection is composed here and nowhere else, so a
// key-collision between entity types cannot be introduced by a stray
// string concatenation in a handler.
package keys

import "fmt"

// Attribute names of the primary key and the two secondary-index
// projections on the shared table.
const (
	AttrPK     = "PK"
	AttrSK     = "SK"
	AttrGSI1PK = "GSI1PK"
	AttrGSI1SK = "GSI1SK"
	AttrGSI2PK = "GSI2PK"
	AttrGSI2SK = "GSI2SK"
)

// Key locates a record in the single-table store.
type Key struct {
	PK string
	SK string
}

// Projection is a secondary-index key pair written atomically with the
// record it belongs to. The store never maintains indexes on its own; the
// caller supplies projections at write time.
type Projection struct {
	PK string
	SK string
}

// Vendor profile: VENDOR#{vendorId} / PROFILE, indexed by email.

func Vendor(vendorID string) Key {
	return Key{PK: "VENDOR#" + vendorID, SK: "PROFILE"}
}

func VendorByEmail(email, vendorID string) Projection {
	return Projection{PK: "VENDOR_EMAIL#" + email, SK: vendorID}
}

// VendorListing puts every profile in one partition so the directory can
// be paged without a table scan.
func VendorListing(vendorID string) Projection {
	return Projection{PK: "VENDORS", SK: vendorID}
}

// Product: VENDOR#{vendorId} / PRODUCT#{productId}, indexed by category
// and by product id for reverse lookup.

func Product(vendorID, productID string) Key {
	return Key{PK: "VENDOR#" + vendorID, SK: "PRODUCT#" + productID}
}

func ProductSKPrefix() string { return "PRODUCT#" }

func ProductByCategory(category, productID string) Projection {
	return Projection{PK: "CATEGORY#" + category, SK: productID}
}

func ProductByID(productID, vendorID string) Projection {
	return Projection{PK: "PRODUCT#" + productID, SK: vendorID}
}

// Tender: TENDER#{tenderId} / REQUEST, indexed by buyer.

func Tender(tenderID string) Key {
	return Key{PK: "TENDER#" + tenderID, SK: "REQUEST"}
}

func TenderByBuyer(buyerID, tenderID string) Projection {
	return Projection{PK: "BUYER#" + buyerID, SK: "TENDER#" + tenderID}
}

// TenderListing puts every tender in one partition ordered by creation
// time, so the open-tenders board can be paged without a scan.
func TenderListing(createdAt, tenderID string) Projection {
	return Projection{PK: "TENDERS", SK: createdAt + "#" + tenderID}
}

// Bid: TENDER#{tenderId} / BID#{vendorId}, indexed by vendor. One bid per
// vendor per tender by construction of the sort key.

func Bid(tenderID, vendorID string) Key {
	return Key{PK: "TENDER#" + tenderID, SK: "BID#" + vendorID}
}

func BidSKPrefix() string { return "BID#" }

func BidByVendor(vendorID, bidID string) Projection {
	return Projection{PK: "VENDOR#" + vendorID, SK: "BID#" + bidID}
}

// Order: ORDER#{orderId} / DETAILS, indexed by buyer and by vendor.

func Order(orderID string) Key {
	return Key{PK: "ORDER#" + orderID, SK: "DETAILS"}
}

func OrderByBuyer(buyerID, orderID string) Projection {
	return Projection{PK: "BUYER#" + buyerID, SK: "ORDER#" + orderID}
}

func OrderByVendor(vendorID, orderID string) Projection {
	return Projection{PK: "VENDOR#" + vendorID, SK: "ORDER#" + orderID}
}

// Work order: WORKORDER#{workOrderId} / DETAILS, indexed by machine and by
// technician (sorted by scheduled date).

func WorkOrder(workOrderID string) Key {
	return Key{PK: "WORKORDER#" + workOrderID, SK: "DETAILS"}
}

func WorkOrderByMachine(machineID, workOrderID string) Projection {
	return Projection{PK: "MACHINE#" + machineID, SK: "WORKORDER#" + workOrderID}
}

func WorkOrderByTechnician(technicianID, scheduledDate string) Projection {
	return Projection{PK: "TECHNICIAN#" + technicianID, SK: scheduledDate}
}

// Maintenance schedule: MACHINE#{machineId} / SCHEDULE#{scheduleId},
// indexed by schedule id sorted by next due date.

func Schedule(machineID, scheduleID string) Key {
	return Key{PK: "MACHINE#" + machineID, SK: "SCHEDULE#" + scheduleID}
}

func ScheduleSKPrefix() string { return "SCHEDULE#" }

func ScheduleByID(scheduleID, nextDueDate string) Projection {
	return Projection{PK: "SCHEDULE#" + scheduleID, SK: nextDueDate}
}

// Behavior event: USER#{userId} / BEHAVIOR#{timestamp}#{behaviorId}.
// The ISO-8601 timestamp in the sort key makes lexicographic order equal
// chronological order.

func Behavior(userID, timestamp, behaviorID string) Key {
	return Key{PK: "USER#" + userID, SK: fmt.Sprintf("BEHAVIOR#%s#%s", timestamp, behaviorID)}
}

func BehaviorSKPrefix() string { return "BEHAVIOR#" }

func BehaviorByResource(resourceType, resourceID, timestamp string) Projection {
	return Projection{PK: fmt.Sprintf("RESOURCE#%s#%s", resourceType, resourceID), SK: timestamp}
}

// Report: REPORT#{reportId} / DETAILS, indexed by report type sorted by
// generation time.

func Report(reportID string) Key {
	return Key{PK: "REPORT#" + reportID, SK: "DETAILS"}
}

func ReportByType(reportType, generatedAt string) Projection {
	return Projection{PK: "REPORT_TYPE#" + reportType, SK: generatedAt}
}

// Partition key builders used by index queries.

func CategoryPartition(category string) string     { return "CATEGORY#" + category }
func BuyerPartition(buyerID string) string         { return "BUYER#" + buyerID }
func TenderPartition(tenderID string) string       { return "TENDER#" + tenderID }
func VendorPartition(vendorID string) string       { return "VENDOR#" + vendorID }
func MachinePartition(machineID string) string     { return "MACHINE#" + machineID }
func TechnicianPartition(technician string) string { return "TECHNICIAN#" + technician }
func VendorEmailPartition(email string) string     { return "VENDOR_EMAIL#" + email }
func ReportTypePartition(reportType string) string { return "REPORT_TYPE#" + reportType }
func VendorsPartition() string                     { return "VENDORS" }
func TendersPartition() string                     { return "TENDERS" }
func ProductPartition(productID string) string     { return "PRODUCT#" + productID }
func UserPartition(userID string) string           { return "USER#" + userID }
