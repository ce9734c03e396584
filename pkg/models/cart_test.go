package models

import "testing"

func TestRecomputeTotal(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{ProductID: "a", Quantity: 10, Price: 25.5},
		{ProductID: "b", Quantity: 2, Price: 40},
	}}
	cart.RecomputeTotal()
	if cart.Total != 335 {
		t.Errorf("total = %v, want 335", cart.Total)
	}

	cart.Items = nil
	cart.RecomputeTotal()
	if cart.Total != 0 {
		t.Errorf("empty cart total = %v, want 0", cart.Total)
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleCustomer, RoleVendor, RoleAdmin} {
		if !ValidRole(r) {
			t.Errorf("ValidRole(%q) = false", r)
		}
	}
	for _, r := range []string{"", "courier", "Customer"} {
		if ValidRole(r) {
			t.Errorf("ValidRole(%q) = true", r)
		}
	}
}
