// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package session

import (
	"context"

	"github.com/tomtom215/cartographus/internal/apierr"
	"github.com/tomtom215/cartographus/internal/models"
)

// AdjustTeamScore applies an admin-initiated delta on top of the
// transaction-derived score. Admin-only by convention of the caller
// (internal/adminplane enforces that GM command dispatch requires a valid
// token before reaching this method).
func (e *Engine) AdjustTeamScore(ctx context.Context, teamID string, delta int, reason string) (*models.TeamScore, error) {
	var result *models.TeamScore
	var outErr error

	e.do(func() {
		if e.session == nil {
			outErr = errNoSession
			return
		}

		score, ok := e.scores[teamID]
		if !ok {
			score = models.NewTeamScore(teamID)
			e.scores[teamID] = score
		}
		score.AdminAdjustments = append(score.AdminAdjustments, models.ScoreAdjustment{
			Delta:  delta,
			Reason: reason,
			At:     nowUTC(),
		})
		score.LastUpdate = nowUTC()

		if err := e.persistLocked(ctx); err != nil {
			outErr = apierr.Internal("failed to persist score adjustment")
			return
		}

		cp := *score
		result = &cp
		e.publish("score:updated", &cp)
	})

	return result, outErr
}

// ResetTeamScores clears derived scores for the given teams (all teams if
// empty) and triggers a full resync.
func (e *Engine) ResetTeamScores(ctx context.Context, teamIDs []string) error {
	var outErr error

	e.do(func() {
		if e.session == nil {
			outErr = errNoSession
			return
		}

		targets := teamIDs
		if len(targets) == 0 {
			targets = e.session.Teams
		}
		for _, team := range targets {
			e.scores[team] = models.NewTeamScore(team)
		}

		if err := e.persistLocked(ctx); err != nil {
			outErr = apierr.Internal("failed to persist score reset")
			return
		}

		e.publish("scores:reset", map[string]interface{}{"teams": targets})
		// Session-wide broadcast, not tied to any one device's reconnect, so
		// deviceScannedTokens is reported empty and reconnection false.
		e.publish("sync:full", e.syncPayloadLocked(ctx, "", false))
	})

	return outErr
}

// DeleteTransaction removes a transaction from the log and recomputes
// every team's derived score from scratch, so a revoked scan also revokes
// any group-completion bonus it contributed to (spec §9 Open Question 3).
func (e *Engine) DeleteTransaction(ctx context.Context, txID string) error {
	var outErr error

	e.do(func() {
		if e.session == nil {
			outErr = errNoSession
			return
		}

		idx := -1
		for i, tx := range e.session.Transactions {
			if tx.ID == txID {
				idx = i
				break
			}
		}
		if idx == -1 {
			outErr = apierr.New(apierr.KindValidation, "transaction not found", txID)
			return
		}

		e.session.Transactions = append(e.session.Transactions[:idx], e.session.Transactions[idx+1:]...)
		e.recomputeScoresLocked()

		if err := e.persistLocked(ctx); err != nil {
			outErr = apierr.Internal("failed to persist transaction deletion")
			return
		}

		e.publish("transaction:deleted", map[string]string{"transactionId": txID})
		for _, score := range e.scores {
			cp := *score
			e.publish("score:updated", &cp)
		}
	})

	return outErr
}

// recomputeScoresLocked zeroes every team's derived fields (admin
// adjustments are preserved — they are not part of the replay) and
// replays the transaction log in order, matching the "score recomputation"
// algorithm in spec §4.1.
func (e *Engine) recomputeScoresLocked() {
	preserved := make(map[string][]models.ScoreAdjustment, len(e.scores))
	for team, score := range e.scores {
		preserved[team] = score.AdminAdjustments
	}

	fresh := make(map[string]*models.TeamScore)
	scannedByTeam := make(map[string]map[string]bool)

	for _, tx := range e.session.Transactions {
		if tx.Status != models.TransactionAccepted || tx.Mode != models.ModeBlackmarket {
			continue
		}

		score, ok := fresh[tx.TeamID]
		if !ok {
			score = models.NewTeamScore(tx.TeamID)
			fresh[tx.TeamID] = score
		}
		tok, known := e.catalog.Lookup(tx.TokenID)
		if !known {
			continue
		}

		score.BaseScore += tx.Points
		score.TokensScanned++
		score.LastUpdate = tx.Timestamp

		scanned, ok := scannedByTeam[tx.TeamID]
		if !ok {
			scanned = make(map[string]bool)
			scannedByTeam[tx.TeamID] = scanned
		}
		scanned[tok.ID] = true

		if tok.InGroup() && !score.HasCompletedGroup(tok.GroupID) && e.catalog.GroupComplete(tok.GroupID, scanned) {
			sum := e.catalog.GroupValueSum(tok.GroupID)
			score.BonusPoints += int(float64(sum) * (tok.GroupMultiplier - 1))
			score.CompletedGroups = append(score.CompletedGroups, tok.GroupID)
		}
	}

	for _, team := range e.session.Teams {
		if _, ok := fresh[team]; !ok {
			fresh[team] = models.NewTeamScore(team)
		}
	}
	for team, score := range fresh {
		score.AdminAdjustments = preserved[team]
	}

	e.scores = fresh
}
