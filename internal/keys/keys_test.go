package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityKeys(t *testing.T) {
	assert.Equal(t, Key{PK: "VENDOR#v-1", SK: "PROFILE"}, Vendor("v-1"))
	assert.Equal(t, Key{PK: "VENDOR#v-1", SK: "PRODUCT#p-1"}, Product("v-1", "p-1"))
	assert.Equal(t, Key{PK: "TENDER#t-1", SK: "REQUEST"}, Tender("t-1"))
	assert.Equal(t, Key{PK: "TENDER#t-1", SK: "BID#v-1"}, Bid("t-1", "v-1"))
	assert.Equal(t, Key{PK: "ORDER#o-1", SK: "DETAILS"}, Order("o-1"))
	assert.Equal(t, Key{PK: "WORKORDER#w-1", SK: "DETAILS"}, WorkOrder("w-1"))
	assert.Equal(t, Key{PK: "MACHINE#m-1", SK: "SCHEDULE#s-1"}, Schedule("m-1", "s-1"))
	assert.Equal(t, Key{PK: "REPORT#r-1", SK: "DETAILS"}, Report("r-1"))
}

func TestBehaviorKeyOrdering(t *testing.T) {
	earlier := Behavior("u-1", "2024-06-01T10:00:00Z", "b-1")
	later := Behavior("u-1", "2024-06-01T11:00:00Z", "b-2")
	assert.Equal(t, earlier.PK, later.PK)
	assert.Less(t, earlier.SK, later.SK)
}

func TestProjections(t *testing.T) {
	assert.Equal(t, Projection{PK: "VENDOR_EMAIL#a@b.co", SK: "v-1"}, VendorByEmail("a@b.co", "v-1"))
	assert.Equal(t, Projection{PK: "CATEGORY#cnc", SK: "p-1"}, ProductByCategory("cnc", "p-1"))
	assert.Equal(t, Projection{PK: "BUYER#c-1", SK: "TENDER#t-1"}, TenderByBuyer("c-1", "t-1"))
	assert.Equal(t, Projection{PK: "TECHNICIAN#tech-1", SK: "2024-06-01"}, WorkOrderByTechnician("tech-1", "2024-06-01"))
	assert.Equal(t, Projection{PK: "RESOURCE#PRODUCT#p-1", SK: "ts"}, BehaviorByResource("PRODUCT", "p-1", "ts"))
}

func TestBidKeyIsOneBidPerVendor(t *testing.T) {
	first := Bid("t-1", "v-1")
	second := Bid("t-1", "v-1")
	assert.Equal(t, first, second)

	other := Bid("t-1", "v-2")
	assert.NotEqual(t, first, other)
}

func TestPartitionBuilders(t *testing.T) {
	assert.Equal(t, "CATEGORY#cnc", CategoryPartition("cnc"))
	assert.Equal(t, "VENDORS", VendorsPartition())
	assert.Equal(t, "TENDERS", TendersPartition())
	assert.Equal(t, "USER#u-1", UserPartition("u-1"))
}
