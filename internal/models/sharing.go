// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package models

// InheritanceShareData feeds the OpenGraph share page for an inheritance.
type InheritanceShareData struct {
	AccountID           string
	TrainerName         string
	CharacterName       string
	ParentLeftName      string
	ParentRightName     string
	ParentRank          int32
	ParentRarity        int32
	WinCount            int32
	WhiteCount          int32
	BlueFactorsSummary  string
	PinkFactorsSummary  string
	GreenFactorsSummary string
	WhiteFactorsSummary string
	MainFactorsSummary  string
}

// SupportCardShareData feeds the OpenGraph share page for a support card.
type SupportCardShareData struct {
	AccountID       string
	TrainerName     string
	CardName        string
	CardRarity      string
	LimitBreakCount *int32
	Experience      int32
	CardType        string
}
