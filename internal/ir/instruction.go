// File: instruction.go
// Title: Instructions
// Description: Opcodes and the Instruction value.
// Created: 2026-10-17

package ir

import (
	"fmt"
	"strings"

	"github.com/msto63/microscheme/internal/ast"
)

// Opcode identifies an instruction
type Opcode int

const (
	OpLoadConstant Opcode = iota
	OpLoadGlobal
	OpStop
)

// Mnemonic returns the assembler name of the opcode
func (o Opcode) Mnemonic() string {
	switch o {
	case OpLoadConstant:
		return "ldc"
	case OpLoadGlobal:
		return "ldg"
	case OpStop:
		return "stop"
	default:
		return "???"
	}
}

// String returns the long name, e.g. LoadConstant
func (o Opcode) String() string {
	switch o {
	case OpLoadConstant:
		return "LoadConstant"
	case OpLoadGlobal:
		return "LoadGlobal"
	case OpStop:
		return "Stop"
	default:
		return fmt.Sprintf("Opcode(%d)", int(o))
	}
}

// Instruction is one IR operation. Value is set for OpLoadConstant, Name
// for OpLoadGlobal.
type Instruction struct {
	Op    Opcode
	Value ast.Expr
	Name  string
}

// LoadConstant pushes value
func LoadConstant(value ast.Expr) Instruction {
	return Instruction{Op: OpLoadConstant, Value: value}
}

// LoadGlobal pushes the global bound to name
func LoadGlobal(name string) Instruction {
	return Instruction{Op: OpLoadGlobal, Name: name}
}

// Stop halts execution
func Stop() Instruction {
	return Instruction{Op: OpStop}
}

// String returns the assembler form: "ldc 42", "ldg a", "stop"
func (i Instruction) String() string {
	switch i.Op {
	case OpLoadConstant:
		return "ldc " + i.Value.String()
	case OpLoadGlobal:
		return "ldg " + i.Name
	default:
		return i.Op.Mnemonic()
	}
}

// Dump returns the debug form, e.g. LoadConstant(Atom(Integer(1)))
func (i Instruction) Dump() string {
	switch i.Op {
	case OpLoadConstant:
		return "LoadConstant(" + ast.Dump(i.Value) + ")"
	case OpLoadGlobal:
		return fmt.Sprintf("LoadGlobal(%q)", i.Name)
	default:
		return i.Op.String()
	}
}

// Equal compares opcode and operand
func (i Instruction) Equal(o Instruction) bool {
	if i.Op != o.Op {
		return false
	}
	switch i.Op {
	case OpLoadConstant:
		return ast.Equal(i.Value, o.Value)
	case OpLoadGlobal:
		return i.Name == o.Name
	default:
		return true
	}
}

// Format renders a program as "[ldc 1, ldg a, stop]"
func Format(program []Instruction) string {
	parts := make([]string, len(program))
	for i, in := range program {
		parts[i] = in.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Listing renders one numbered instruction per line
func Listing(program []Instruction) string {
	var b strings.Builder
	width := len(fmt.Sprint(len(program) - 1))
	for i, in := range program {
		fmt.Fprintf(&b, "%*d  %s\n", width, i, in)
	}
	return b.String()
}

// EqualPrograms compares two instruction streams element-wise
func EqualPrograms(a, b []Instruction) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
