package piece_test

import (
	"fmt"

	"github.com/plus3/blockfall/grid"
	"github.com/plus3/blockfall/piece"
)

func ExamplePiece_Rotate() {
	g := grid.New[piece.Color](15, 30)
	p := piece.New(piece.T, grid.C(7, 10))

	fmt.Println(p.Positions())
	p.Rotate(g)
	fmt.Println(p.Positions())

	// Output:
	// [(7,10) (7,9) (6,10) (8,10)]
	// [(7,10) (8,10) (7,9) (7,11)]
}

func ExamplePiece_Settled() {
	g := grid.New[piece.Color](15, 30)
	p := piece.New(piece.SQR, grid.C(0, 0))

	fmt.Println(p.MoveLeft(g), p.Settled(g))
	rows := p.Drop(g)
	fmt.Println(rows, p.Settled(g))

	// Output:
	// false false
	// 28 true
}
