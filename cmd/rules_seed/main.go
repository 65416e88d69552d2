// Command rules_seed loads a starter set of merchant policy rules so a fresh
// deployment resolves sensible return/warranty dates before any rules are
// entered by hand.
package main

import (
	"log"

	"reclaim/internal/config"
	"reclaim/internal/models"
	"reclaim/internal/repositories"
)

var starterRules = []models.MerchantRule{
	{MerchantName: "costco", ReturnPolicyDays: 90, WarrantyMonths: 24},
	{MerchantName: "ikea", ReturnPolicyDays: 365, WarrantyMonths: 12},
	{MerchantName: "best buy", ReturnPolicyDays: 15, WarrantyMonths: 12},
	{MerchantName: "target", ReturnPolicyDays: 90, WarrantyMonths: 12},
	{MerchantName: "walmart", ReturnPolicyDays: 90, WarrantyMonths: 12},
	{MerchantName: "apple store", ReturnPolicyDays: 14, WarrantyMonths: 12},
	{MerchantName: "home depot", ReturnPolicyDays: 90, WarrantyMonths: 12},
}

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer repositories.CloseDB()

	ruleRepo := repositories.NewMerchantRuleRepository(repositories.DB, repositories.CacheService)

	created := 0
	for _, rule := range starterRules {
		r := rule
		if err := ruleRepo.Create(&r); err != nil {
			if err == repositories.ErrDuplicateRule {
				log.Printf("rule for %q already exists, skipping", rule.MerchantName)
				continue
			}
			log.Fatalf("failed to seed rule for %q: %v", rule.MerchantName, err)
		}
		created++
	}

	log.Printf("seeded %d merchant rules", created)
}
