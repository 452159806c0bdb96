package domain

import "testing"

func TestNormalizeShopDomain(t *testing.T) {
	cases := map[string]string{
		"https://www.example.com/collections/all": "example.com",
		"http://shop.example.in":                  "shop.example.in",
		"Example.COM/":                            "example.com",
		"  https://store.myshopify.com  ":         "store.myshopify.com",
	}
	for input, expected := range cases {
		if got := NormalizeShopDomain(input); got != expected {
			t.Fatalf("NormalizeShopDomain(%q) = %q, expected %q", input, got, expected)
		}
	}
}
