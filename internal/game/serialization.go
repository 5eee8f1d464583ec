package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// StateChecksum is a deterministic fingerprint of a match state. Equal
// states produce equal hashes regardless of map iteration order; timestamps
// and the narration log are excluded.
type StateChecksum struct {
	Hash    string
	Version int
}

// ComputeChecksum hashes the deterministic representation of the state.
func ComputeChecksum(s *State) StateChecksum {
	sum := sha256.Sum256([]byte(buildDeterministicRepresentation(s)))
	return StateChecksum{
		Hash:    hex.EncodeToString(sum[:]),
		Version: 1,
	}
}

// VerifyChecksum reports whether the state still matches a stored checksum.
func VerifyChecksum(s *State, expected StateChecksum) bool {
	return ComputeChecksum(s).Hash == expected.Hash
}

// buildDeterministicRepresentation writes a canonical line-oriented form of
// the state. Deck and hand order is part of the game state and is kept;
// per-player stats are sorted by player ID.
func buildDeterministicRepresentation(s *State) string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("GAME:%s|%s|%s|%d|%d|%d|%d|%s\n",
		s.MatchID,
		s.Mode,
		s.Phase,
		s.TurnNumber,
		s.CurrentPlayerIndex,
		s.CurrentDieRoll,
		s.AMR.Level,
		s.Winner,
	))

	for _, z := range s.Zones {
		buf.WriteString(fmt.Sprintf("ZONE:%d|%s|%d|%d|%t|%s\n",
			z.ID, z.Name, z.GoodTokens, z.BadTokens, z.Locked, z.ControlledBy))
	}

	for _, p := range s.Players {
		handIDs := make([]string, len(p.Hand))
		for i, inst := range p.Hand {
			handIDs[i] = inst.Card.ID
		}
		buf.WriteString(fmt.Sprintf("PLAYER:%s|%s|%s|%t|%s\n",
			p.ID, p.Name, p.Team, p.IsAI, strings.Join(handIDs, ",")))
	}

	goodIDs := make([]string, len(s.GoodDeck))
	for i, inst := range s.GoodDeck {
		goodIDs[i] = inst.Card.ID
	}
	buf.WriteString("GOOD_DECK:" + strings.Join(goodIDs, ",") + "\n")

	badIDs := make([]string, len(s.BadDeck))
	for i, inst := range s.BadDeck {
		badIDs[i] = inst.Card.ID
	}
	buf.WriteString("BAD_DECK:" + strings.Join(badIDs, ",") + "\n")

	eventIDs := make([]string, len(s.EventDeck))
	for i, ev := range s.EventDeck {
		eventIDs[i] = ev.ID
	}
	buf.WriteString("EVENT_DECK:" + strings.Join(eventIDs, ",") + "\n")

	if s.CurrentEvent != nil {
		buf.WriteString("CURRENT_EVENT:" + s.CurrentEvent.ID + "\n")
	}
	if s.SelectedCard != nil {
		buf.WriteString("SELECTED:" + s.SelectedCard.Card.ID + "\n")
	}

	playerIDs := make([]string, 0, len(s.Stats.PlayerStats))
	for id := range s.Stats.PlayerStats {
		playerIDs = append(playerIDs, id)
	}
	sort.Strings(playerIDs)
	for _, id := range playerIDs {
		ps := s.Stats.PlayerStats[id]
		buf.WriteString(fmt.Sprintf("STATS:%s|%d|%d\n", id, ps.CardsPlayed, ps.AntibioticsUsed))
	}
	buf.WriteString(fmt.Sprintf("MATCH_STATS:%d|%d|%d\n",
		s.Stats.GlobalEventsTriggered, s.Stats.HighestAMRReached, s.Stats.TotalCardsPlayed))

	return buf.String()
}

// SerializeState encodes a state to bytes with gob, the format used for
// replay files.
func SerializeState(s *State) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeState decodes a state previously written by SerializeState.
func DeserializeState(data []byte) (*State, error) {
	var s State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	return &s, nil
}

// ValidateSerializationRoundtrip checks that a state survives a gob
// round trip without drift, by comparing checksums.
func ValidateSerializationRoundtrip(s *State) error {
	original := ComputeChecksum(s)

	data, err := SerializeState(s)
	if err != nil {
		return err
	}
	restored, err := DeserializeState(data)
	if err != nil {
		return err
	}

	if got := ComputeChecksum(restored); got.Hash != original.Hash {
		return fmt.Errorf("checksum mismatch after roundtrip: %s != %s", got.Hash, original.Hash)
	}
	return nil
}
