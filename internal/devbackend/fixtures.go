package devbackend

import (
	"fmt"
	"time"
)

// FixturePassword is the password of every seeded account.
const FixturePassword = "password123"

// Seed fills d and f with one account per role and a few notifications.
func Seed(d *Directory, f *Feeds) error {
	accounts := []NewAccount{
		{Names: "Ada Admin", Email: "admin@feeding.test", Role: "ROLE_ADMIN"},
		{Names: "Gil Gov", Email: "gov@feeding.test", Role: "Government"},
		{Names: "Dana District", Email: "district@feeding.test", Role: "district", DistrictID: "d-001"},
		{Names: "Sam School", Email: "school@feeding.test", Role: "SCHOOL", Phone: "250788000111", DistrictID: "d-001", SchoolID: "s-001"},
		{Names: "Sue Supplier", Email: "supplier@feeding.test", Role: "supplier"},
		{Names: "Stan Stock", Email: "stock@feeding.test", Role: "STOCK_KEEPER", SchoolID: "s-001"},
	}
	created := make(map[string]*Account, len(accounts))
	for _, in := range accounts {
		in.Password = FixturePassword
		a, err := d.Add(in)
		if err != nil {
			return fmt.Errorf("seed %s: %w", in.Email, err)
		}
		created[in.Email] = a
	}

	base := f.now().Add(-time.Hour)
	f.PublishAt("admin", "New district onboarded", "/admin/districts", base)
	f.PublishAt("government", "Quarterly report available", "/gov/reports", base.Add(time.Minute))
	f.PublishAt("district/d-001", "School s-001 submitted its meal plan", "/district/schools", base)
	f.PublishAt("school/s-001", "Rice delivery scheduled for Monday", "/school/deliveries", base)
	f.PublishAt("school/s-001", "Stock below threshold: beans", "/school/inventory", base.Add(time.Minute))
	f.PublishAt("supplier/"+created["supplier@feeding.test"].ID, "New purchase order", "/supplier/orders", base)
	f.PublishAt("stock/"+created["stock@feeding.test"].ID, "Delivery awaiting confirmation", "/stock/receipts", base)
	return nil
}
