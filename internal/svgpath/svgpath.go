// Package svgpath interprets SVG path descriptors for stroke validation.
package svgpath

import (
	"github.com/verte-zerg/kakitori/internal/model"
)

// command is one path command letter with its parameter list.
type command struct {
	letter byte
	params []float64
}

const commandLetters = "MmLlHhVvCcSsQqTtAaZz"

func isCommandLetter(b byte) bool {
	for i := 0; i < len(commandLetters); i++ {
		if commandLetters[i] == b {
			return true
		}
	}
	return false
}

// parseCommands tokenizes a path descriptor into command groups. Unknown
// bytes outside a command group are skipped.
func parseCommands(d string) []command {
	var cmds []command
	i := 0
	for i < len(d) {
		if !isCommandLetter(d[i]) {
			i++
			continue
		}
		cmd := command{letter: d[i]}
		i++
		for i < len(d) && !isCommandLetter(d[i]) {
			value, next, ok := scanNumber(d, i)
			if !ok {
				i = next
				continue
			}
			cmd.params = append(cmd.params, value)
			i = next
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

// scanNumber reads a signed decimal starting at or after position i.
// It returns the parsed value, the position after the number, and whether a
// number was found at this position.
func scanNumber(d string, i int) (float64, int, bool) {
	for i < len(d) && !isNumberStart(d[i]) && !isCommandLetter(d[i]) {
		i++
	}
	if i >= len(d) || !isNumberStart(d[i]) {
		return 0, i, false
	}
	start := i
	if d[i] == '-' || d[i] == '+' {
		i++
	}
	seenDot := false
	for i < len(d) {
		b := d[i]
		if b >= '0' && b <= '9' {
			i++
			continue
		}
		if b == '.' && !seenDot {
			seenDot = true
			i++
			continue
		}
		break
	}
	if i == start || (i == start+1 && (d[start] == '-' || d[start] == '+')) {
		return 0, i + 1, false
	}
	return parseFloat(d[start:i]), i, true
}

func isNumberStart(b byte) bool {
	return (b >= '0' && b <= '9') || b == '-' || b == '+' || b == '.'
}

// parseFloat avoids strconv for the restricted grammar scanned above.
func parseFloat(s string) float64 {
	sign := 1.0
	i := 0
	if s[0] == '-' {
		sign = -1
		i = 1
	} else if s[0] == '+' {
		i = 1
	}
	var whole float64
	for ; i < len(s) && s[i] != '.'; i++ {
		whole = whole*10 + float64(s[i]-'0')
	}
	var frac, scale float64 = 0, 1
	if i < len(s) && s[i] == '.' {
		for i++; i < len(s); i++ {
			frac = frac*10 + float64(s[i]-'0')
			scale *= 10
		}
	}
	return sign * (whole + frac/scale)
}

// EndPoints resolves a path descriptor into its start and end points. The
// first move command's resolved coordinate is the start; the running cursor
// after all commands is the end. Bezier control points never move the
// cursor, only each command's final coordinate pair does. Returns nil, nil
// when the descriptor contains no move command.
func EndPoints(d string) (*model.Point, *model.Point) {
	var start *model.Point
	var cur model.Point
	for _, cmd := range parseCommands(d) {
		switch cmd.letter {
		case 'M', 'm':
			if len(cmd.params) < 2 {
				continue
			}
			// Extra pairs after a move are implicit linetos; only the
			// move itself is tracked here.
			if cmd.letter == 'M' {
				cur = model.Point{X: cmd.params[0], Y: cmd.params[1]}
			} else {
				cur.X += cmd.params[0]
				cur.Y += cmd.params[1]
			}
			if start == nil {
				start = &model.Point{X: cur.X, Y: cur.Y}
			}
		case 'L', 'l':
			applyFinalPair(&cur, cmd, 2)
		case 'C', 'c':
			applyFinalPair(&cur, cmd, 6)
		case 'S', 's':
			applyFinalPair(&cur, cmd, 4)
		case 'Q', 'q':
			applyFinalPair(&cur, cmd, 4)
		case 'T', 't':
			applyFinalPair(&cur, cmd, 2)
		}
	}
	if start == nil {
		return nil, nil
	}
	end := model.Point{X: cur.X, Y: cur.Y}
	return start, &end
}

// applyFinalPair moves the cursor by the command's last coordinate pair,
// skipping commands with fewer than minParams parameters.
func applyFinalPair(cur *model.Point, cmd command, minParams int) {
	n := len(cmd.params)
	if n < minParams {
		return
	}
	x, y := cmd.params[n-2], cmd.params[n-1]
	if cmd.letter >= 'a' && cmd.letter <= 'z' {
		cur.X += x
		cur.Y += y
		return
	}
	cur.X = x
	cur.Y = y
}
