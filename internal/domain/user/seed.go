package user

// SeedUsers returns the records the service starts with.
func SeedUsers() []User {
	return []User{
		{ID: 1, Username: "amr", DisplayName: "Amr"},
		{ID: 2, Username: "ahmed", DisplayName: "Ahmed"},
		{ID: 3, Username: "ali", DisplayName: "Ali"},
		{ID: 4, Username: "tamer", DisplayName: "Tamer"},
		{ID: 5, Username: "omir", DisplayName: "Omir"},
		{ID: 6, Username: "samer", DisplayName: "Samer"},
		{ID: 7, Username: "hussein", DisplayName: "Hussein"},
	}
}
