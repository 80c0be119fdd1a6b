package recorder

// Home returns the movements that bring the vehicle back to where the recording started.
//
// Each recorded step contributes speed*duration/100 to its axis: x (FORWARD +, BACKWARD -),
// y (RIGHT +, LEFT -), z (UP +, DOWN -). The result always holds an x and a y movement and
// a z movement only when z moved. Durations are non-negative: the direction carries the sign.
// Home does not touch the recording and can be called any number of times.
func (r *Recorder) Home() []Movement {
	return home(r.Recording())
}

func home(moves []Movement) []Movement {
	x, y, z := displacement(moves)

	out := make([]Movement, 0, 3)
	out = append(out, Movement{Action: pick(x < 0, Forward, Backward), Speed: DefaultSpeed, Duration: back(x)})
	out = append(out, Movement{Action: pick(y < 0, Right, Left), Speed: DefaultSpeed, Duration: back(y)})
	if z != 0 {
		out = append(out, Movement{Action: pick(z < 0, Up, Down), Speed: DefaultSpeed, Duration: back(z)})
	}
	return out
}

// HomeOf is Home for a recording read back from a flight log.
func HomeOf(moves []Movement) []Movement {
	return home(moves)
}

// Displacement returns the per-axis distance travelled by moves, in speed*ms/100 units.
func Displacement(moves []Movement) (x, y, z int64) {
	return displacement(moves)
}

func displacement(moves []Movement) (x, y, z int64) {
	for _, m := range moves {
		step := int64(m.Speed) * m.Duration / 100
		switch m.Action {
		case Forward:
			x += step
		case Backward:
			x -= step
		case Right:
			y += step
		case Left:
			y -= step
		case Up:
			z += step
		case Down:
			z -= step
		}
	}
	return x, y, z
}

// back is the duration at DefaultSpeed that cancels acc.
func back(acc int64) int64 {
	if acc < 0 {
		acc = -acc
	}
	return acc * 100 / DefaultSpeed
}

func pick(cond bool, a, b Action) Action {
	if cond {
		return a
	}
	return b
}
