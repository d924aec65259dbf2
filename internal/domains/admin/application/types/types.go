package types

// Statistics summarises the service for the admin dashboard.
type Statistics struct {
	TotalUsers       int64
	TotalGenerations int64
	// ActiveUsers counts accounts with any activity in the trailing window.
	ActiveUsers int64
}
