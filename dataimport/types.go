package dataimport

import "time"

// Collection names in the document store.
const (
	CollectionDataImports       = "dataImports"
	CollectionCustomers         = "customers"
	CollectionAccountReceivable = "accountReceivable"
	CollectionItemMaster        = "itemMaster"
	CollectionItemsAvailable    = "itemsAvailable"
	CollectionSalesRequisitions = "salesRequisitions"
	CollectionEmailLogs         = "emailLogs"
	CollectionCleanupLogs       = "cleanupLogs"
)

// Import job states. pending -> processing -> completed | error.
// completed and error are terminal.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusError      = "error"
)

const (
	CleanupStatusSuccess = "success"
	CleanupStatusFailed  = "failed"
)

type ImportJob struct {
	Status      string     `firestore:"status"`
	StartedAt   *time.Time `firestore:"startedAt"`
	CompletedAt *time.Time `firestore:"completedAt"`
	FailedAt    *time.Time `firestore:"failedAt"`
	Error       string     `firestore:"error"`
}

type Customer struct {
	Name          string    `firestore:"name"`
	CreditLimit   float64   `firestore:"creditLimit"`
	AccountNumber string    `firestore:"accountNumber"`
	PostalAddress string    `firestore:"postalAddress"`
	PaymentTerms  string    `firestore:"paymentTerms"`
	PriceLevel    string    `firestore:"priceLevel"`
	DeliveryRoute string    `firestore:"deliveryRoute"`
	Area          string    `firestore:"area"`
	CreatedAt     time.Time `firestore:"createdAt,serverTimestamp"`
	ExpiresAt     time.Time `firestore:"expiresAt"`
}

type ReceivableEntry struct {
	Name           string    `firestore:"name"`
	AccountNumber  string    `firestore:"accountNumber"`
	AmountDue      float64   `firestore:"amountDue"`
	OverThirtyDays float64   `firestore:"overThirtyDays"`
	Unsecured      float64   `firestore:"unsecured"`
	CreatedAt      time.Time `firestore:"createdAt,serverTimestamp"`
	ExpiresAt      time.Time `firestore:"expiresAt"`
}

type ItemMasterEntry struct {
	ProductGroup      string    `firestore:"productGroup"`
	Description       string    `firestore:"description"`
	ItemCode          string    `firestore:"itemCode"`
	ItemType          string    `firestore:"itemType"`
	ConversionFactor  float64   `firestore:"conversionFactor"`
	RegularPrice      float64   `firestore:"regularPrice"`
	RmlInclusivePrice float64   `firestore:"rmlInclusivePrice"`
	SpecialOD         float64   `firestore:"specialOD"`
	CreatedAt         time.Time `firestore:"createdAt,serverTimestamp"`
	ExpiresAt         time.Time `firestore:"expiresAt"`
}

type ItemAvailability struct {
	Date         string    `firestore:"date"`
	Area         string    `firestore:"area"`
	ProductGroup string    `firestore:"productGroup"`
	ItemCode     string    `firestore:"itemCode"`
	Description  string    `firestore:"description"`
	Quantity     float64   `firestore:"quantity"`
	CreatedAt    time.Time `firestore:"createdAt,serverTimestamp"`
	ExpiresAt    time.Time `firestore:"expiresAt"`
}

type CleanupLog struct {
	ExecutedAt       time.Time `firestore:"executedAt"`
	DocumentsDeleted int       `firestore:"documentsDeleted"`
	Status           string    `firestore:"status"`
	Message          string    `firestore:"message,omitempty"`
	Error            string    `firestore:"error,omitempty"`
	ErrorStack       string    `firestore:"errorStack,omitempty"`
}

// RecordBuilder turns one normalized row into a document for its collection.
// ok is false when the row fails the required-field invariant and must be
// dropped (not an error; only aggregate counts are surfaced).
type RecordBuilder func(row rawRow, expiresAt time.Time) (doc interface{}, ok bool)

// SheetSpec binds a workbook sheet to its target collection and builder.
type SheetSpec struct {
	Sheet      string
	Collection string
	Build      RecordBuilder
}

// ImportSheets is the fixed set of sheets one import job processes,
// in commit order.
var ImportSheets = []SheetSpec{
	{Sheet: "customer master", Collection: CollectionCustomers, Build: buildCustomer},
	{Sheet: "acct recble", Collection: CollectionAccountReceivable, Build: buildReceivable},
	{Sheet: "item master", Collection: CollectionItemMaster, Build: buildItemMaster},
	{Sheet: "items available", Collection: CollectionItemsAvailable, Build: buildItemAvailability},
}

func buildCustomer(row rawRow, expiresAt time.Time) (interface{}, bool) {
	name := resolveString(row, "name", "Name", "Customer Name")
	if name == "" {
		return nil, false
	}
	return &Customer{
		Name:          name,
		CreditLimit:   resolveNumber(row, "creditLimit", "Credit Limit"),
		AccountNumber: resolveString(row, "accountNumber", "Account Number"),
		PostalAddress: resolveString(row, "postalAddress", "Postal Address"),
		PaymentTerms:  resolveString(row, "paymentTerms", "Pmt. Terms"),
		PriceLevel:    resolveString(row, "priceLevel", "Price Level"),
		DeliveryRoute: resolveString(row, "deliveryRoute", "Delivery Route"),
		Area:          resolveString(row, "area", "Area"),
		ExpiresAt:     expiresAt,
	}, true
}

func buildReceivable(row rawRow, expiresAt time.Time) (interface{}, bool) {
	name := resolveString(row, "name", "Name", "Customer")
	if name == "" {
		return nil, false
	}
	return &ReceivableEntry{
		Name:           name,
		AccountNumber:  resolveString(row, "accountNumber", "Customer ID"),
		AmountDue:      resolveNumber(row, "amountDue", "Amount Due"),
		OverThirtyDays: resolveNumber(row, "overThirtyDays", "Over 30 Days"),
		Unsecured:      resolveNumber(row, "unsecured", "Unsecured"),
		ExpiresAt:      expiresAt,
	}, true
}

func buildItemMaster(row rawRow, expiresAt time.Time) (interface{}, bool) {
	productGroup := resolveString(row, "productGroup", "Product Group")
	if productGroup == "" {
		return nil, false
	}
	return &ItemMasterEntry{
		ProductGroup:      productGroup,
		Description:       resolveString(row, "description", "Description"),
		ItemCode:          resolveString(row, "itemCode", "Item Code"),
		ItemType:          resolveString(row, "itemType", "ITEM TYPE"),
		ConversionFactor:  resolveNumber(row, "conversionFactor", "CONVERSION FACTOR"),
		RegularPrice:      resolveNumber(row, "regular", "REGULAR"),
		RmlInclusivePrice: resolveNumber(row, "RML INCLUSIVE"),
		SpecialOD:         resolveNumber(row, "SPECIAL OD"),
		ExpiresAt:         expiresAt,
	}, true
}

func buildItemAvailability(row rawRow, expiresAt time.Time) (interface{}, bool) {
	date := resolveString(row, "date", "Date")
	if date == "" {
		return nil, false
	}
	return &ItemAvailability{
		Date:         date,
		Area:         resolveString(row, "area", "Area"),
		ProductGroup: resolveString(row, "productGroup", "Product Group"),
		ItemCode:     resolveString(row, "itemCode", "Item Code"),
		Description:  resolveString(row, "description", "Description"),
		Quantity:     resolveNumber(row, "quantity", "Quantity", "NET QTY AVAILABLE FOR SALE"),
		ExpiresAt:    expiresAt,
	}, true
}
