package model

import "github.com/benbeisheim/chess-backend/internal/engine"

// WSMove is a move request. Promotion may be given up front so a pawn
// reaching the last rank is promoted in the same request.
type WSMove struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Move is one numbered line of the score sheet. White is empty when the
// game started with black to move.
type Move struct {
	Number int    `json:"number"`
	White  string `json:"white"`
	Black  string `json:"black,omitempty"`
}

func pairMoves(start engine.Position, history []string) []Move {
	moves := make([]Move, 0, (len(history)+1)/2)
	plies := history
	if start.Turn == engine.Black && len(plies) > 0 {
		moves = append(moves, Move{Number: start.FullMoveNumber, Black: plies[0]})
		plies = plies[1:]
	}
	num := start.FullMoveNumber
	if start.Turn == engine.Black {
		num++
	}
	for i := 0; i < len(plies); i += 2 {
		m := Move{Number: num, White: plies[i]}
		if i+1 < len(plies) {
			m.Black = plies[i+1]
		}
		moves = append(moves, m)
		num++
	}
	return moves
}
