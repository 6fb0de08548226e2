// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package api

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/honsemoe/backend/internal/database"
	"github.com/honsemoe/backend/internal/logging"
)

// SharePage renders an OpenGraph HTML page for Discord and Twitter embeds,
// then redirects the browser to the main app.
// GET /s/{share_type}/{account_id}
func (h *Handler) SharePage(w http.ResponseWriter, r *http.Request) {
	shareType := chi.URLParam(r, "share_type")
	accountID := chi.URLParam(r, "account_id")

	switch shareType {
	case "inheritance":
		h.inheritanceShare(w, r, accountID)
	case "support-card":
		h.supportCardShare(w, r, accountID)
	default:
		writeShareError(w, http.StatusNotFound,
			"Invalid share type", "The requested share type is not supported.")
	}
}

type inheritanceShareView struct {
	Title           string
	Description     string
	AccountID       string
	CharacterName   string
	TrainerName     string
	ParentLeftName  string
	ParentRightName string
	RankDisplay     string
	RarityDisplay   string
	WinCount        int32
	WhiteCount      int32
	BlueSummary     string
	PinkSummary     string
	GreenSummary    string
	WhiteSummary    string
	MainSummary     string
}

func (h *Handler) inheritanceShare(w http.ResponseWriter, r *http.Request, accountID string) {
	trainerName, inh, err := h.store.InheritanceForShare(r.Context(), accountID)
	if errors.Is(err, database.ErrNotFound) {
		writeShareError(w, http.StatusNotFound,
			"Inheritance Not Found", "The requested inheritance record could not be found.")
		return
	}
	if err != nil {
		logging.Err(err).Str("account_id", accountID).Msg("inheritance share lookup failed")
		writeShareError(w, http.StatusInternalServerError,
			"Something went wrong", "Please try again later.")
		return
	}

	view := inheritanceShareView{
		AccountID:       accountID,
		CharacterName:   characterName(inh.MainParentID),
		TrainerName:     trainerName,
		ParentLeftName:  characterName(inh.ParentLeftID),
		ParentRightName: characterName(inh.ParentRightID),
		RankDisplay:     rankDisplay(inh.ParentRank),
		RarityDisplay:   rarityDisplay(inh.ParentRarity),
		WinCount:        inh.WinCount,
		WhiteCount:      inh.WhiteCount,
		BlueSummary:     sparksSummary(inh.BlueSparks),
		PinkSummary:     sparksSummary(inh.PinkSparks),
		GreenSummary:    sparksSummary(inh.GreenSparks),
		WhiteSummary:    sparksSummary(inh.WhiteSparks),
	}
	view.MainSummary = fmt.Sprintf("Blue: %d • Pink: %d • Green: %d • White: %s (%d)",
		inh.MainBlueFactors, inh.MainPinkFactors, inh.MainGreenFactors,
		sparksSummary(inh.MainWhiteFactors), inh.MainWhiteCount)
	view.Title = fmt.Sprintf("%s's %s Inheritance", view.TrainerName, view.CharacterName)
	view.Description = fmt.Sprintf(
		"Parents: %s × %s • Rank: %s • Rarity: %s • Wins: %d • White Skills: %d • %s",
		view.ParentLeftName, view.ParentRightName, view.RankDisplay, view.RarityDisplay,
		view.WinCount, view.WhiteCount, view.MainSummary)

	writeShareHTML(w, http.StatusOK, inheritanceShareTmpl, view)
}

type supportCardShareView struct {
	Title             string
	Description       string
	AccountID         string
	TrainerName       string
	CardName          string
	CardRarity        string
	CardType          string
	LimitBreakDisplay string
	Experience        int32
}

func (h *Handler) supportCardShare(w http.ResponseWriter, r *http.Request, accountID string) {
	trainerName, card, err := h.store.SupportCardForShare(r.Context(), accountID)
	if errors.Is(err, database.ErrNotFound) {
		writeShareError(w, http.StatusNotFound,
			"Support Card Not Found", "The requested support card record could not be found.")
		return
	}
	if err != nil {
		logging.Err(err).Str("account_id", accountID).Msg("support card share lookup failed")
		writeShareError(w, http.StatusInternalServerError,
			"Something went wrong", "Please try again later.")
		return
	}

	cardName, cardRarity, cardType := supportCardDetails(card.SupportCardID)
	limitBreak := "★0"
	if card.LimitBreakCount != nil {
		limitBreak = fmt.Sprintf("★%d", *card.LimitBreakCount)
	}

	view := supportCardShareView{
		AccountID:         accountID,
		TrainerName:       trainerName,
		CardName:          cardName,
		CardRarity:        cardRarity,
		CardType:          cardType,
		LimitBreakDisplay: limitBreak,
		Experience:        card.Experience,
	}
	view.Title = fmt.Sprintf("%s's %s Support Card", view.TrainerName, view.CardName)
	view.Description = fmt.Sprintf("%s %s • %s • Experience: %d • Trainer: %s",
		view.CardRarity, view.CardName, view.LimitBreakDisplay, view.Experience, view.TrainerName)

	writeShareHTML(w, http.StatusOK, supportCardShareTmpl, view)
}

type errorShareView struct {
	Title   string
	Message string
}

func writeShareError(w http.ResponseWriter, status int, title, message string) {
	writeShareHTML(w, status, errorShareTmpl, errorShareView{Title: title, Message: message})
}

func writeShareHTML(w http.ResponseWriter, status int, tmpl *template.Template, view interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, view); err != nil {
		logging.Err(err).Msg("failed to render share page")
	}
}

var inheritanceShareTmpl = template.Must(template.New("inheritance").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>

    <!-- Discord Embed Meta Tags -->
    <meta property="og:type" content="website">
    <meta property="og:title" content="{{.Title}}">
    <meta property="og:description" content="{{.Description}}">
    <meta property="og:url" content="https://honse.moe/s/inheritance/{{.AccountID}}">
    <meta property="og:site_name" content="Honse.moe - Uma Musume Database">
    <meta property="og:color" content="#FF6B9D">

    <!-- Twitter Card -->
    <meta name="twitter:card" content="summary">
    <meta name="twitter:title" content="{{.Title}}">
    <meta name="twitter:description" content="{{.Description}}">

    <!-- Redirect to the main app after a short delay to allow scraping -->
    <script>
        setTimeout(function() {
            window.location.href = 'https://honse.moe/inheritance?trainer_id={{.AccountID}}';
        }, 2000);
    </script>

    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; background-color: #f5f5f5; }
        .inheritance-card { background: white; border-radius: 10px; padding: 20px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); margin-bottom: 20px; }
        .character-name { font-size: 24px; font-weight: bold; color: #FF6B9D; margin-bottom: 10px; }
        .trainer-name { font-size: 18px; color: #666; margin-bottom: 15px; }
        .parents { font-size: 16px; margin-bottom: 10px; }
        .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr)); gap: 10px; margin-bottom: 15px; }
        .stat { background: #f8f9fa; padding: 10px; border-radius: 5px; text-align: center; }
        .factors { margin-top: 15px; }
        .factor-group { margin-bottom: 8px; }
        .redirect-notice { background: #e3f2fd; border: 1px solid #2196F3; border-radius: 5px; padding: 15px; text-align: center; color: #1976D2; }
    </style>
</head>
<body>
    <div class="inheritance-card">
        <div class="character-name">{{.CharacterName}} Inheritance</div>
        <div class="trainer-name">Trainer: {{.TrainerName}}</div>
        <div class="parents">Parents: {{.ParentLeftName}} × {{.ParentRightName}}</div>

        <div class="stats">
            <div class="stat">
                <strong>Rank</strong><br>
                {{.RankDisplay}}
            </div>
            <div class="stat">
                <strong>Rarity</strong><br>
                {{.RarityDisplay}}
            </div>
            <div class="stat">
                <strong>Wins</strong><br>
                {{.WinCount}}
            </div>
            <div class="stat">
                <strong>White Skills</strong><br>
                {{.WhiteCount}}
            </div>
        </div>

        <div class="factors">
            <div class="factor-group"><strong>Inherited Factors:</strong></div>
            <div class="factor-group">Blue: {{.BlueSummary}}</div>
            <div class="factor-group">Pink: {{.PinkSummary}}</div>
            <div class="factor-group">Green: {{.GreenSummary}}</div>
            <div class="factor-group">White: {{.WhiteSummary}}</div>
            <div class="factor-group"><strong>Main Factors:</strong> {{.MainSummary}}</div>
        </div>
    </div>

    <div class="redirect-notice">
        Redirecting to the full database in a moment...
    </div>
</body>
</html>
`))

var supportCardShareTmpl = template.Must(template.New("support-card").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>

    <!-- Discord Embed Meta Tags -->
    <meta property="og:type" content="website">
    <meta property="og:title" content="{{.Title}}">
    <meta property="og:description" content="{{.Description}}">
    <meta property="og:url" content="https://honse.moe/s/support-card/{{.AccountID}}">
    <meta property="og:site_name" content="Honse.moe - Uma Musume Database">
    <meta property="og:color" content="#4CAF50">

    <!-- Twitter Card -->
    <meta name="twitter:card" content="summary">
    <meta name="twitter:title" content="{{.Title}}">
    <meta name="twitter:description" content="{{.Description}}">

    <!-- Redirect to the main app after a short delay to allow scraping -->
    <script>
        setTimeout(function() {
            window.location.href = 'https://honse.moe/support-cards?trainer_id={{.AccountID}}';
        }, 2000);
    </script>

    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; background-color: #f5f5f5; }
        .card { background: white; border-radius: 10px; padding: 20px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); margin-bottom: 20px; }
        .card-name { font-size: 24px; font-weight: bold; color: #4CAF50; margin-bottom: 10px; }
        .trainer-name { font-size: 18px; color: #666; margin-bottom: 15px; }
        .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr)); gap: 10px; margin-bottom: 15px; }
        .stat { background: #f8f9fa; padding: 10px; border-radius: 5px; text-align: center; }
        .redirect-notice { background: #e3f2fd; border: 1px solid #2196F3; border-radius: 5px; padding: 15px; text-align: center; color: #1976D2; }
    </style>
</head>
<body>
    <div class="card">
        <div class="card-name">{{.CardName}}</div>
        <div class="trainer-name">Trainer: {{.TrainerName}}</div>

        <div class="stats">
            <div class="stat">
                <strong>Rarity</strong><br>
                {{.CardRarity}}
            </div>
            <div class="stat">
                <strong>Limit Break</strong><br>
                {{.LimitBreakDisplay}}
            </div>
            <div class="stat">
                <strong>Experience</strong><br>
                {{.Experience}}
            </div>
            <div class="stat">
                <strong>Type</strong><br>
                {{.CardType}}
            </div>
        </div>
    </div>

    <div class="redirect-notice">
        Redirecting to the full database in a moment...
    </div>
</body>
</html>
`))

var errorShareTmpl = template.Must(template.New("share-error").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>

    <script>
        setTimeout(function() {
            window.location.href = 'https://honse.moe/';
        }, 3000);
    </script>

    <style>
        body { font-family: Arial, sans-serif; max-width: 600px; margin: 50px auto; padding: 20px; text-align: center; background-color: #f5f5f5; }
        .error-card { background: white; border-radius: 10px; padding: 30px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        .error-title { font-size: 24px; color: #f44336; margin-bottom: 15px; }
        .error-message { font-size: 16px; color: #666; margin-bottom: 20px; }
        .redirect-notice { background: #e3f2fd; border: 1px solid #2196F3; border-radius: 5px; padding: 15px; color: #1976D2; }
    </style>
</head>
<body>
    <div class="error-card">
        <div class="error-title">{{.Title}}</div>
        <div class="error-message">{{.Message}}</div>
        <div class="redirect-notice">
            Redirecting to homepage in a moment...
        </div>
    </div>
</body>
</html>
`))
