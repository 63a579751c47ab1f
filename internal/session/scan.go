// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cartographus/internal/apierr"
	"github.com/tomtom215/cartographus/internal/metrics"
	"github.com/tomtom215/cartographus/internal/models"
)

// ScanResult is what ProcessScan returns: the recorded transaction plus,
// when the scan was scored, the team's updated score and whether it just
// completed a group.
type ScanResult struct {
	Transaction   models.Transaction
	TeamScore     *models.TeamScore
	GroupComplete string // group ID just completed, empty if none
}

// ProcessScan runs the 9-step scan-processing algorithm (spec §4.1).
// Business rejections (unknown token, duplicate) are reported as an
// accepted/duplicate/rejected Transaction, never as a Go error. Only
// structural failures (no session, paused session, storage error) return
// an error.
func (e *Engine) ProcessScan(ctx context.Context, tokenID, teamID, deviceID string, mode models.TransactionMode) (*ScanResult, error) {
	var result *ScanResult
	var outErr error
	start := time.Now()

	e.do(func() {
		// Step 1: session guard.
		if e.session == nil {
			outErr = errNoSession
			return
		}
		if e.session.Status == models.SessionPaused {
			outErr = errSessionPaused
			return
		}

		tx := models.Transaction{
			ID:        uuid.NewString(),
			SessionID: e.session.ID,
			TokenID:   tokenID,
			TeamID:    teamID,
			DeviceID:  deviceID,
			Mode:      mode,
			Timestamp: nowUTC(),
		}

		// Step 2: token lookup.
		tok, known := e.catalog.Lookup(tokenID)
		if !known {
			tx.Status = models.TransactionRejected
			tx.Reason = "UnknownToken"
			result = e.commitAndPublish(ctx, tx, nil, "")
			return
		}

		// Step 3: per-device duplicate detection.
		if e.session.Metadata.HasScanned(deviceID, tokenID) {
			tx.Status = models.TransactionDuplicate
			tx.Points = 0
			result = e.commitAndPublish(ctx, tx, nil, "")
			return
		}

		// Step 4: mode gate — detective mode is informational only.
		if mode == models.ModeDetective {
			tx.Status = models.TransactionAccepted
			tx.Points = 0
			e.session.Metadata.MarkScanned(deviceID, tokenID)
			if err := e.persistLocked(ctx); err != nil {
				outErr = apierr.Internal("failed to persist scan")
				return
			}
			result = e.commitAndPublish(ctx, tx, nil, "")
			return
		}

		// Step 5: score computation (blackmarket).
		tx.Status = models.TransactionAccepted
		tx.Points = tok.Value

		// Step 6: atomic commit (we're already on the single-writer
		// goroutine, so this is just sequential mutation).
		e.session.Transactions = append(e.session.Transactions, tx)
		e.session.Metadata.MarkScanned(deviceID, tokenID)

		score, ok := e.scores[teamID]
		if !ok {
			score = models.NewTeamScore(teamID)
			e.scores[teamID] = score
		}
		score.BaseScore += tx.Points
		score.TokensScanned++
		score.LastUpdate = tx.Timestamp

		// Step 7: group-completion check.
		completedGroup := ""
		if tok.InGroup() && !score.HasCompletedGroup(tok.GroupID) {
			scanned := e.session.Metadata.ScannedTokensByDevice
			teamScanned := unionScannedByTeam(scanned, e.session.Transactions, teamID)
			if e.catalog.GroupComplete(tok.GroupID, teamScanned) {
				sum := e.catalog.GroupValueSum(tok.GroupID)
				bonus := int(float64(sum) * (tok.GroupMultiplier - 1))
				score.BonusPoints += bonus
				score.CompletedGroups = append(score.CompletedGroups, tok.GroupID)
				completedGroup = tok.GroupID
			}
		}

		// Step 9: persist.
		if err := e.persistLocked(ctx); err != nil {
			outErr = apierr.Internal("failed to persist scan")
			return
		}

		// Step 8: emit.
		result = e.commitAndPublish(ctx, tx, score, completedGroup)
	})

	if result != nil {
		metrics.RecordTransaction(string(result.Transaction.Status), time.Since(start))
	}

	return result, outErr
}

// commitAndPublish emits the transaction:accepted / score:updated /
// group:completed domain events in the order spec §8 property 5 requires
// (transaction:new always precedes score:updated for the same team), and
// builds the ScanResult the caller sees.
func (e *Engine) commitAndPublish(ctx context.Context, tx models.Transaction, score *models.TeamScore, completedGroup string) *ScanResult {
	e.publish(txSubject(tx.Status), tx)

	var scoreCopy *models.TeamScore
	if score != nil {
		cp := *score
		scoreCopy = &cp
		e.publish("score:updated", scoreCopy)
	}

	if completedGroup != "" {
		e.publish("group:completed", map[string]interface{}{
			"teamId":      tx.TeamID,
			"group":       completedGroup,
			"bonusPoints": score.BonusPoints,
			"completedAt": tx.Timestamp,
		})
	}

	return &ScanResult{Transaction: tx, TeamScore: scoreCopy, GroupComplete: completedGroup}
}

func txSubject(status models.TransactionStatus) string {
	switch status {
	case models.TransactionAccepted:
		return "transaction:accepted"
	case models.TransactionDuplicate:
		return "transaction:duplicate"
	default:
		return "transaction:rejected"
	}
}

// unionScannedByTeam returns the set of token IDs any device has scanned
// on behalf of teamID, since group completion is tracked per team across
// every device that scored for it (spec §4.1 step 7: "regardless of
// device").
func unionScannedByTeam(byDevice map[string]map[string]bool, txs []models.Transaction, teamID string) map[string]bool {
	out := make(map[string]bool)
	for _, tx := range txs {
		if tx.TeamID == teamID && tx.Status == models.TransactionAccepted && tx.Mode == models.ModeBlackmarket {
			out[tx.TokenID] = true
		}
	}
	_ = byDevice // per-device sets are for duplicate detection only, not group completion
	return out
}
