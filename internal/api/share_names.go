// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package api

import (
	"fmt"
	"sort"
	"strings"
)

// characterNames maps main character ids to display names for share pages.
var characterNames = map[int32]string{
	1:  "Special Week",
	2:  "Silence Suzuka",
	3:  "Tokai Teio",
	4:  "Vodka",
	5:  "Daiwa Scarlet",
	6:  "Gold Ship",
	7:  "Mejiro McQueen",
	8:  "Emperor",
	9:  "Fuji Kiseki",
	10: "Orfevre",
	11: "Agnes Tachyon",
	12: "Agnes Digital",
	13: "Haru Urara",
	14: "El Condor Pasa",
	15: "Grass Wonder",
	16: "Air Groove",
	17: "Mayano Top Gun",
	18: "Manhattan Cafe",
	19: "Mihono Bourbon",
	20: "Mejiro Ryan",
	21: "Hishi Amazon",
	22: "Yukino Bijin",
	23: "Rice Shower",
	24: "King Halo",
	25: "Matikanetannhauser",
	26: "Ikuno Dictus",
	27: "Tamamo Cross",
	28: "Fine Motion",
	29: "Biwa Hayahide",
	30: "Narita Taishin",
	31: "Winning Ticket",
	32: "Air Shakur",
	33: "Eishin Flash",
	34: "Copano Rickey",
	35: "Sinister Minister",
	36: "Mejiro Dober",
	37: "Twin Turbo",
	38: "Marvelous Sunday",
	39: "Seeking the Pearl",
	40: "Shinko Windy",
	41: "Sweep Tosho",
	42: "Super Creek",
	43: "Smart Falcon",
	44: "Zen-no-Rob Roy",
	45: "T.M. Opera O",
	46: "Narita Brian",
	47: "Symboli Rudolf",
	48: "Aiming for the Top",
	49: "Admire Vega",
	50: "Inari One",
	51: "Winning Ticket",
	52: "Nice Nature",
	53: "Tosen Jordan",
	54: "Mejiro Bright",
	55: "Satono Diamond",
	56: "Kitasan Black",
	57: "Sakura Bakushin O",
	58: "Sirius Symboli",
	59: "Mejiro Ardan",
	60: "Yaeno Muteki",
	61: "Nishino Flower",
	62: "Hokko Tarumae",
	63: "Wonder Acute",
	64: "Nakayama Festa",
	65: "Tap Dance City",
	66: "Curren Chan",
	67: "Gold City",
	68: "Sakura Chiyono O",
	69: "Meisho Doto",
	70: "Yamanin Zephyr",
	71: "K.S. Miracle",
	72: "Dantsu Flame",
	73: "Sound of Earth",
	74: "Duramente",
	75: "Daiichi Ruby",
	76: "Zenno Rob Roy",
	77: "Tagano Diamond",
	78: "Kawakami Princess",
	79: "Mejiro Palmer",
	80: "Neo Universe",
	81: "Symboli Kris S",
	82: "Narita Top Road",
	83: "Jungle Pocket",
	84: "Daiwa Major",
	85: "Yukikaze",
	86: "Cheval Grand",
	87: "Gossamer",
	88: "Meiner Liebe",
	89: "Agnes World",
	90: "World End",
	91: "Lovely Derby",
	92: "Bamboo Memory",
	93: "Hello Unique",
	94: "Zenith",
}

func characterName(id int32) string {
	if name, ok := characterNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Character %d", id)
}

// factorName maps a factor type id to its display name. Blue factors are
// the five stats, pink are aptitudes, green are resistances; everything from
// 30 up is a white skill factor.
func factorName(factorID int32) string {
	switch factorID {
	case 1:
		return "Speed"
	case 2:
		return "Stamina"
	case 3:
		return "Power"
	case 4:
		return "Guts"
	case 5:
		return "Wit"
	case 10:
		return "Turf"
	case 11:
		return "Dirt"
	case 12:
		return "Sprint"
	case 13:
		return "Mile"
	case 14:
		return "Middle"
	case 15:
		return "Long"
	case 16:
		return "Front Runner"
	case 17:
		return "Pace Chaser"
	case 18:
		return "Late Surger"
	case 19:
		return "End"
	case 20:
		return "Summer"
	case 21:
		return "Heavy"
	}
	if factorID >= 30 {
		return fmt.Sprintf("Skill %d", factorID-29)
	}
	return fmt.Sprintf("Factor %d", factorID)
}

func rankDisplay(rank int32) string {
	ranks := []string{"G", "F", "E", "D", "C", "B", "A", "S", "SS", "SSS"}
	if rank >= 1 && int(rank) <= len(ranks) {
		return ranks[rank-1]
	}
	return fmt.Sprintf("Rank %d", rank)
}

func rarityDisplay(rarity int32) string {
	if rarity >= 1 && rarity <= 3 {
		return strings.Repeat("★", int(rarity))
	}
	return fmt.Sprintf("%d★", rarity)
}

// supportCardDetails returns (name, rarity, type) for a support card id.
// TODO: load card metadata from the game data dump instead of a placeholder.
func supportCardDetails(supportCardID int32) (string, string, string) {
	return fmt.Sprintf("Support Card %d", supportCardID), "★★★", "Speed"
}

// sparksSummary renders encoded spark values as "Name ★level" pairs, one
// per factor at its highest level, sorted by factor id.
func sparksSummary(sparks []int32) string {
	if len(sparks) == 0 {
		return "None"
	}

	maxLevels := make(map[int32]int32)
	for _, spark := range sparks {
		factorID := spark / 10
		level := spark % 10
		if level > maxLevels[factorID] {
			maxLevels[factorID] = level
		}
	}

	ids := make([]int32, 0, len(maxLevels))
	for id := range maxLevels {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s ★%d", factorName(id), maxLevels[id]))
	}
	return strings.Join(parts, " • ")
}
