package universe

//Rand is the source of randomness injected into Randomize and RandomFill
//*math/rand.Rand satisfies it; tests can pass a scripted source
type Rand interface {
	Float64() float64
}

//Fill decides the initial state of the cell at linear index i
type Fill func(i int) Cell

//DeadFill leaves every cell Dead
func DeadFill() Fill {
	return func(int) Cell { return Dead }
}

//RandomFill draws one value per cell, a value below 0.5 makes the cell Alive
func RandomFill(rng Rand) Fill {
	return func(int) Cell {
		if rng.Float64() < 0.5 {
			return Alive
		}
		return Dead
	}
}

//PatternFill makes Alive every cell whose linear index satisfies the rule
func PatternFill(rule func(i int) bool) Fill {
	return func(i int) Cell {
		if rule(i) {
			return Alive
		}
		return Dead
	}
}

//DemoFill is the deterministic startup pattern used when randomness is off
func DemoFill() Fill {
	return PatternFill(func(i int) bool {
		return i%2 == 0 || i%7 == 0
	})
}
