package engine

import "errors"

// Every rejected operation returns one of these and leaves the engine unchanged.
var (
	ErrIllegalMove        = errors.New("illegal move")
	ErrPromotionPending   = errors.New("promotion pending")
	ErrNoPendingPromotion = errors.New("no promotion pending")
	ErrInvalidPromotion   = errors.New("invalid promotion piece")
	ErrGameOver           = errors.New("game is over")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrInvalidResult      = errors.New("invalid game result")
	ErrInvalidSquare      = errors.New("invalid square")
	ErrInvalidFEN         = errors.New("invalid FEN string")
)
