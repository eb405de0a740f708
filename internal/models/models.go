package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Plan{},
		&Member{},
		&Membership{},
		&Invoice{},
		&Enquiry{},
		&SystemLog{},
	}
}
