package obj

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// defaultPatrolScript decides the patrol direction each frame. It sees the
// enemy's x position, its patrol span, and the current direction, and
// reassigns dir to turn around at the span edges.
const defaultPatrolScript = `
if x <= min_x {
	dir = 1
} else if x >= max_x {
	dir = -1
}
`

// patrolScript is a compiled tengo behavior shared per-enemy. Enemies fall
// back to the same logic in Go when the script fails to compile or run.
type patrolScript struct {
	compiled *tengo.Compiled
}

func newPatrolScript(src string) (*patrolScript, error) {
	s := tengo.NewScript([]byte(src))
	s.SetImports(stdlib.GetModuleMap("math"))
	for name, v := range map[string]interface{}{
		"x":     0.0,
		"min_x": 0.0,
		"max_x": 0.0,
		"dir":   int64(1),
	} {
		if err := s.Add(name, v); err != nil {
			return nil, fmt.Errorf("obj: patrol script var %s: %w", name, err)
		}
	}
	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("obj: patrol script compile: %w", err)
	}
	return &patrolScript{compiled: compiled}, nil
}

// nextDir runs the script and returns the chosen direction (-1 or 1).
func (p *patrolScript) nextDir(x, minX, maxX float64, dir int) (int, error) {
	if err := p.compiled.Set("x", x); err != nil {
		return dir, err
	}
	if err := p.compiled.Set("min_x", minX); err != nil {
		return dir, err
	}
	if err := p.compiled.Set("max_x", maxX); err != nil {
		return dir, err
	}
	if err := p.compiled.Set("dir", int64(dir)); err != nil {
		return dir, err
	}
	if err := p.compiled.Run(); err != nil {
		return dir, err
	}
	out := int(p.compiled.Get("dir").Int64())
	if out != -1 && out != 1 {
		return dir, fmt.Errorf("obj: patrol script returned dir=%d", out)
	}
	return out, nil
}
