package main

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/lrgo"
	"github.com/npillmayer/lrgo/lr"
	"github.com/npillmayer/lrgo/lr/gspec"
	"github.com/npillmayer/lrgo/lr/scanner"
	"github.com/npillmayer/lrgo/lr/scanner/lexmach"
	"github.com/npillmayer/lrgo/runtime"
)

// loadGrammar creates the grammar selected by the command line flags,
// together with a lexer for it.
func loadGrammar() (*lr.Grammar, scanner.Tokenizer, error) {
	if *rootFlags.grammar == "" {
		v, err := lr.ParseVariant(*rootFlags.variant)
		if err != nil {
			return nil, nil, err
		}
		return calculator(v)
	}
	decl, err := gspec.Load(*rootFlags.grammar)
	if err != nil {
		return nil, nil, err
	}
	if *rootFlags.variant != "" {
		decl.Variant = *rootFlags.variant
	}
	g, err := decl.Grammar(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("grammar %s: %w", decl.Name, err)
	}
	lexer, err := decl.Lexer()
	if err != nil {
		return nil, nil, fmt.Errorf("lexer for %s: %w", decl.Name, err)
	}
	return g, lexer, nil
}

// We provide a simple calculator grammar as a default. Variables are
// assigned with 'let' and live in the global scope of the runtime.
//
//  Stmt ➞ let id = E  |  E
//  E    ➞ E + E  |  E - E  |  E * E  |  E / E  |  ( E )  |  num  |  id
//
func calculator(v lr.Variant) (*lr.Grammar, scanner.Tokenizer, error) {
	g, err := lr.NewGrammarBuilder("Calculator").
		Variant(v).
		Rule("Stmt -> let id = E", assign).
		Rule("Stmt -> E").
		Rule("E -> E + E", arithmetic('+')).
		Rule("E -> E - E", arithmetic('-')).
		Rule("E -> E * E", arithmetic('*')).
		Rule("E -> E / E", arithmetic('/')).
		Rule("E -> ( E )", func(env *runtime.Runtime, args []interface{}) (interface{}, error) {
			return args[1], nil
		}).
		Rule("E -> num", number).
		Rule("E -> id", variable).
		Precedence("+", 1).Precedence("-", 1).
		Precedence("*", 2).Precedence("/", 2).
		Associativity(1, lr.Left).
		Associativity(2, lr.Left).
		Grammar()
	if err != nil {
		return nil, nil, err
	}
	patterns := []lexmach.Pattern{
		{Regex: `( |\t)+`},
		{Regex: `let`, Tag: "let"},
		{Regex: `([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`, Tag: "id"},
		{Regex: `[0-9]+(\.[0-9]+)?`, Tag: "num"},
	}
	patterns = append(patterns, lexmach.Literals("+", "-", "*", "/", "(", ")", "=")...)
	lexer, err := lexmach.New(patterns...)
	if err != nil {
		return nil, nil, err
	}
	return g, lexer, nil
}

func number(env *runtime.Runtime, args []interface{}) (interface{}, error) {
	return strconv.ParseFloat(args[0].(lrgo.Token).Value, 64)
}

func variable(env *runtime.Runtime, args []interface{}) (interface{}, error) {
	name := args[0].(lrgo.Token).Value
	if env == nil {
		return nil, fmt.Errorf("no runtime to look up %q", name)
	}
	return env.Get(name)
}

func assign(env *runtime.Runtime, args []interface{}) (interface{}, error) {
	if env == nil {
		return nil, fmt.Errorf("no runtime to store variables")
	}
	env.Set(args[1].(lrgo.Token).Value, args[3])
	return args[3], nil
}

func arithmetic(op rune) lr.Routine {
	return func(env *runtime.Runtime, args []interface{}) (interface{}, error) {
		a, aok := args[0].(float64)
		b, bok := args[2].(float64)
		if !aok || !bok {
			return nil, fmt.Errorf("operands of %c are not numbers: %v, %v", op, args[0], args[2])
		}
		switch op {
		case '+':
			return a + b, nil
		case '-':
			return a - b, nil
		case '*':
			return a * b, nil
		}
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return a / b, nil
	}
}
