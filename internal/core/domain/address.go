package domain

// Address is owned by both the order it was captured for and the purchasing
// user. DNI is only meaningful on billing addresses; shipping rows keep it
// empty.
type Address struct {
	ID         uint64
	OrderID    uint64
	UserID     uint64
	FirstName  string
	LastName   string
	DNI        string
	Street     string
	City       string
	PostalCode string
}
