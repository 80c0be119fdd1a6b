package recorder

import "testing"

func TestHome(t *testing.T) {
	tests := []struct {
		name  string
		moves []Movement
		want  []Movement
	}{
		{
			name: "empty",
			want: []Movement{
				{Action: Backward, Speed: DefaultSpeed},
				{Action: Left, Speed: DefaultSpeed},
			},
		},
		{
			name:  "forward only",
			moves: []Movement{{Action: Forward, Speed: 20, Duration: 500}},
			want: []Movement{
				{Action: Backward, Speed: DefaultSpeed, Duration: 500},
				{Action: Left, Speed: DefaultSpeed},
			},
		},
		{
			name: "backward and left",
			moves: []Movement{
				{Action: Backward, Speed: 40, Duration: 1000},
				{Action: Left, Speed: 10, Duration: 300},
			},
			want: []Movement{
				{Action: Forward, Speed: DefaultSpeed, Duration: 2000},
				{Action: Right, Speed: DefaultSpeed, Duration: 150},
			},
		},
		{
			name: "vertical",
			moves: []Movement{
				{Action: Takeoff, Speed: 20, Duration: 5000},
				{Action: Up, Speed: 20, Duration: 1000},
				{Action: Stay, Speed: 20, Duration: 9999},
			},
			want: []Movement{
				{Action: Backward, Speed: DefaultSpeed},
				{Action: Left, Speed: DefaultSpeed},
				{Action: Down, Speed: DefaultSpeed, Duration: 1000},
			},
		},
		{
			name: "integer division per step",
			moves: []Movement{
				{Action: Forward, Speed: 3, Duration: 10},
				{Action: Forward, Speed: 3, Duration: 10},
			},
			want: []Movement{
				{Action: Backward, Speed: DefaultSpeed},
				{Action: Left, Speed: DefaultSpeed},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := home(tt.moves)
			if len(got) != len(tt.want) {
				t.Fatalf("home() = %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("home()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestHomeReturnsToOrigin(t *testing.T) {
	flights := [][]Movement{
		{{Action: Forward, Speed: 20, Duration: 1234}, {Action: Right, Speed: 35, Duration: 777}},
		{{Action: Backward, Speed: 7, Duration: 99}, {Action: Down, Speed: 50, Duration: 20}, {Action: Left, Speed: 20, Duration: 1}},
		{{Action: Forward, Speed: 20, Duration: 100}, {Action: Backward, Speed: 20, Duration: 100}},
	}

	for i, moves := range flights {
		trip := append(append([]Movement(nil), moves...), home(moves)...)
		if x, y, z := Displacement(trip); x != 0 || y != 0 || z != 0 {
			t.Errorf("flight %d: displacement after home = (%d,%d,%d), want origin", i, x, y, z)
		}
	}
}
