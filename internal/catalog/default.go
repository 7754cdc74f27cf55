package catalog

// Category IDs of the built-in curriculum.
const (
	CategoryVehicleControl    = "vehicle-control"
	CategoryTrafficRules      = "traffic-rules"
	CategoryRoadSituations    = "road-situations"
	CategoryAdvancedManeuvers = "advanced-maneuvers"
)

// Default returns the built-in driving curriculum. Teachers start from it
// and may replace it with their own catalog file.
func Default() *Catalog {
	categories := []Category{
		{ID: CategoryVehicleControl, Name: "Vehicle Control", Position: 0},
		{ID: CategoryTrafficRules, Name: "Traffic Rules", Position: 1},
		{ID: CategoryRoadSituations, Name: "Road Situations", Position: 2},
		{ID: CategoryAdvancedManeuvers, Name: "Advanced Maneuvers", Position: 3, Advanced: true},
	}

	var skills []Skill
	add := func(cat string, entries ...[3]string) {
		for i, e := range entries {
			skills = append(skills, Skill{
				ID:          e[0],
				CategoryID:  cat,
				Name:        e[1],
				Description: e[2],
				Position:    i,
			})
		}
	}

	add(CategoryVehicleControl,
		[3]string{"cockpit-drill", "Cockpit drill", "Seat, mirrors and belt set before moving off"},
		[3]string{"moving-off", "Moving off and stopping", "Smooth start and controlled stop at a chosen point"},
		[3]string{"steering", "Steering control", "Hand position and steady line through bends"},
		[3]string{"gear-changes", "Gear changes", "Selecting the right gear for speed and road"},
		[3]string{"mirror-use", "Mirror use", "Checks before signalling, changing speed or direction"},
		[3]string{"speed-control", "Speed control", "Holding an appropriate, legal speed"},
	)
	add(CategoryTrafficRules,
		[3]string{"signals", "Signalling", "Correct, timely use of indicators"},
		[3]string{"right-of-way", "Right of way", "Yielding correctly at junctions and crossings"},
		[3]string{"traffic-signs", "Traffic signs and markings", "Reading and obeying signs and road markings"},
		[3]string{"traffic-lights", "Traffic lights", "Correct response to every light phase"},
		[3]string{"roundabouts", "Roundabouts", "Lane choice, signalling and priority"},
	)
	add(CategoryRoadSituations,
		[3]string{"junctions", "Junctions", "Approach, observation and emergence"},
		[3]string{"pedestrian-crossings", "Pedestrian crossings", "Anticipation and stopping for pedestrians"},
		[3]string{"lane-changes", "Lane changes", "Mirror, signal, blind spot, move"},
		[3]string{"overtaking", "Overtaking", "Judging gaps and passing safely"},
		[3]string{"highway-driving", "Highway driving", "Joining, lane discipline and leaving"},
		[3]string{"hazard-awareness", "Hazard awareness", "Early recognition and response to hazards"},
	)
	add(CategoryAdvancedManeuvers,
		[3]string{"parallel-parking", "Parallel parking", "Reverse park between two vehicles"},
		[3]string{"bay-parking", "Bay parking", "Reverse into a marked bay"},
		[3]string{"three-point-turn", "Turn in the road", "Turn around using forward and reverse gears"},
		[3]string{"hill-start", "Hill start", "Moving off uphill without rolling back"},
		[3]string{"emergency-stop", "Emergency stop", "Controlled stop in the shortest safe distance"},
	)

	return New(categories, skills)
}
