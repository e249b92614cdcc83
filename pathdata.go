package halftone

import (
	"fmt"
	"strconv"
)

// ParsePathData parses SVG path-data syntax into a Path. It supports the
// M/L/H/V/C/S/Q/T/Z commands in absolute and relative form with implicit
// command repetition. Arc commands are not supported and return an error.
func ParsePathData(d string) (*Path, error) {
	toks, err := tokenizePathData(d)
	if err != nil {
		return nil, err
	}

	p := NewPath()
	var cmd byte
	var cur, start, lastCtrl Point
	var lastWasCS bool // previous command was C/S (for S reflection)
	var lastWasQT bool // previous command was Q/T (for T reflection)
	var havePoint bool
	var i int

	number := func() (float64, error) {
		if i >= len(toks) {
			return 0, fmt.Errorf("halftone: path data: unexpected end after %q", cmd)
		}
		t := toks[i]
		i++
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("halftone: path data: invalid number %q", t)
		}
		return v, nil
	}
	pair := func() (float64, float64, error) {
		x, err := number()
		if err != nil {
			return 0, 0, err
		}
		y, err := number()
		if err != nil {
			return 0, 0, err
		}
		return x, y, nil
	}

	for i < len(toks) {
		t := toks[i]
		if len(t) == 1 && isPathCommand(t[0]) {
			cmd = t[0]
			i++
		} else if cmd == 0 {
			return nil, fmt.Errorf("halftone: path data must start with a command, got %q", t)
		} else if cmd == 'M' {
			// Implicit repetition of a moveto continues as lineto.
			cmd = 'L'
		} else if cmd == 'm' {
			cmd = 'l'
		}

		rel := cmd >= 'a'
		wasCS, wasQT := false, false

		switch cmd {
		case 'M', 'm':
			x, y, err := pair()
			if err != nil {
				return nil, err
			}
			if rel && havePoint {
				x += cur.X
				y += cur.Y
			}
			cur = Pt(x, y)
			start = cur
			havePoint = true
			p.MoveTo(x, y)

		case 'L', 'l':
			x, y, err := pair()
			if err != nil {
				return nil, err
			}
			if rel {
				x += cur.X
				y += cur.Y
			}
			cur = Pt(x, y)
			p.LineTo(x, y)

		case 'H', 'h':
			x, err := number()
			if err != nil {
				return nil, err
			}
			if rel {
				x += cur.X
			}
			cur = Pt(x, cur.Y)
			p.LineTo(cur.X, cur.Y)

		case 'V', 'v':
			y, err := number()
			if err != nil {
				return nil, err
			}
			if rel {
				y += cur.Y
			}
			cur = Pt(cur.X, y)
			p.LineTo(cur.X, cur.Y)

		case 'C', 'c':
			x1, y1, err := pair()
			if err != nil {
				return nil, err
			}
			x2, y2, err := pair()
			if err != nil {
				return nil, err
			}
			x, y, err := pair()
			if err != nil {
				return nil, err
			}
			if rel {
				x1 += cur.X
				y1 += cur.Y
				x2 += cur.X
				y2 += cur.Y
				x += cur.X
				y += cur.Y
			}
			p.CubicTo(x1, y1, x2, y2, x, y)
			lastCtrl = Pt(x2, y2)
			cur = Pt(x, y)
			wasCS = true

		case 'S', 's':
			x2, y2, err := pair()
			if err != nil {
				return nil, err
			}
			x, y, err := pair()
			if err != nil {
				return nil, err
			}
			if rel {
				x2 += cur.X
				y2 += cur.Y
				x += cur.X
				y += cur.Y
			}
			x1, y1 := cur.X, cur.Y
			if lastWasCS {
				x1 = 2*cur.X - lastCtrl.X
				y1 = 2*cur.Y - lastCtrl.Y
			}
			p.CubicTo(x1, y1, x2, y2, x, y)
			lastCtrl = Pt(x2, y2)
			cur = Pt(x, y)
			wasCS = true

		case 'Q', 'q':
			x1, y1, err := pair()
			if err != nil {
				return nil, err
			}
			x, y, err := pair()
			if err != nil {
				return nil, err
			}
			if rel {
				x1 += cur.X
				y1 += cur.Y
				x += cur.X
				y += cur.Y
			}
			p.QuadraticTo(x1, y1, x, y)
			lastCtrl = Pt(x1, y1)
			cur = Pt(x, y)
			wasQT = true

		case 'T', 't':
			x, y, err := pair()
			if err != nil {
				return nil, err
			}
			if rel {
				x += cur.X
				y += cur.Y
			}
			x1, y1 := cur.X, cur.Y
			if lastWasQT {
				x1 = 2*cur.X - lastCtrl.X
				y1 = 2*cur.Y - lastCtrl.Y
			}
			p.QuadraticTo(x1, y1, x, y)
			lastCtrl = Pt(x1, y1)
			cur = Pt(x, y)
			wasQT = true

		case 'Z', 'z':
			p.Close()
			cur = start

		case 'A', 'a':
			return nil, fmt.Errorf("halftone: path data: arc commands are not supported")

		default:
			return nil, fmt.Errorf("halftone: path data: unknown command %q", cmd)
		}

		lastWasCS = wasCS
		lastWasQT = wasQT
	}

	return p, nil
}

// isPathCommand reports whether c is a recognized path-data command letter.
func isPathCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v',
		'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

// tokenizePathData splits path data into command and number tokens.
// Commas and whitespace separate numbers; a command letter, a sign, or a
// second decimal point also terminates the current number.
func tokenizePathData(d string) ([]string, error) {
	var toks []string
	var num []byte
	seenDot := false

	flush := func() {
		if len(num) > 0 {
			toks = append(toks, string(num))
			num = nil
			seenDot = false
		}
	}

	for i := 0; i < len(d); i++ {
		c := d[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',':
			flush()
		case isPathCommand(c):
			flush()
			toks = append(toks, string(c))
		case c == '-' || c == '+':
			// A sign begins a new number unless it follows an exponent.
			if len(num) > 0 && (num[len(num)-1] == 'e' || num[len(num)-1] == 'E') {
				num = append(num, c)
			} else {
				flush()
				num = append(num, c)
			}
		case c == '.':
			if seenDot {
				flush()
			}
			seenDot = true
			num = append(num, c)
		case (c >= '0' && c <= '9') || c == 'e' || c == 'E':
			num = append(num, c)
		default:
			return nil, fmt.Errorf("halftone: path data: unexpected character %q", c)
		}
	}
	flush()
	return toks, nil
}
