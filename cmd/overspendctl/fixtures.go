package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hearthledger/budget-backend/types"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type householdFixture struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Settings struct {
		Threshold           *decimal.Decimal `yaml:"threshold"`
		AutoCreateThreshold *decimal.Decimal `yaml:"autoCreateThreshold"`
		WeekCount           *int             `yaml:"weekCount"`
	} `yaml:"settings"`
	Members []struct {
		UserID           string           `yaml:"userId"`
		Name             string           `yaml:"name"`
		Email            string           `yaml:"email"`
		Role             string           `yaml:"role"`
		IncomePercentage *decimal.Decimal `yaml:"incomePercentage"`
	} `yaml:"members"`
}

type statementFixture struct {
	ID            string         `yaml:"id"`
	CardID        string         `yaml:"cardId"`
	StatementDate time.Time      `yaml:"statementDate"`
	Charges       []types.Charge `yaml:"charges"`
}

func decodeYAMLFile(path string, out interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func loadHousehold(path string) (types.Household, error) {
	var f householdFixture
	if err := decodeYAMLFile(path, &f); err != nil {
		return types.Household{}, err
	}
	if f.ID == "" {
		return types.Household{}, fmt.Errorf("%s: household id is required", path)
	}

	h := types.Household{
		ID:   f.ID,
		Name: f.Name,
		Settings: types.HouseholdSettings{
			CreditCardOverspendThreshold: f.Settings.Threshold,
			AutoCreateOverspendProject:   f.Settings.AutoCreateThreshold,
			OverspendWeekCount:           f.Settings.WeekCount,
		},
	}
	for _, m := range f.Members {
		role := types.HouseholdRole(m.Role)
		if !role.IsValid() {
			return types.Household{}, fmt.Errorf("%s: member %s has unknown role %q", path, m.UserID, m.Role)
		}
		h.Members = append(h.Members, types.HouseholdMember{
			UserID:           m.UserID,
			Name:             m.Name,
			Email:            m.Email,
			Role:             role,
			IncomePercentage: m.IncomePercentage,
		})
	}
	return h, nil
}

func loadStatement(path string) (statementFixture, error) {
	var f statementFixture
	if err := decodeYAMLFile(path, &f); err != nil {
		return f, err
	}
	if f.ID == "" {
		f.ID = "replay"
	}
	return f, nil
}
