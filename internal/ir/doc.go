// File: doc.go
// Title: Stack Machine IR
// Description: Instructions and the lowering pass from syntax trees.
// Created: 2026-10-17

/*
Package ir lowers syntax trees to a flat stack-machine instruction stream.

	ldc <value>   push a self-evaluating or quoted value
	ldg <name>    push the value of a global symbol
	stop          halt; always the last instruction

Lowering is structural: lists emit nothing themselves and their children are
lowered left to right; quoted forms become a single ldc of the quoted tree.
There is no call instruction.
*/
package ir
