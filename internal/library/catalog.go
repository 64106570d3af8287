package library

import "cyclecoach/internal/domain"

// Catalog returns the built-in workout template set. The slice is freshly
// allocated on each call so callers can index it without sharing state.
func Catalog() []domain.WorkoutTemplate {
	return []domain.WorkoutTemplate{

		// Recovery (Z1)
		{
			Name:                "Easy Recovery Spin",
			ShortName:           "Recovery 30min",
			Description:         "Light spinning to promote recovery and blood flow",
			PrimaryZone:         domain.ZoneRecovery,
			Type:                domain.TypeSteadyState,
			MinProgressionLevel: 1.0,
			MaxProgressionLevel: 10.0,
			DifficultyScore:     1.0,
			Duration:            1800,
			WorkDuration:        1800,
			EstimatedTSS:        15.0,
			IntensityFactor:     0.45,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalSteady, Duration: 1800, Power: 0.50},
			},
			SuitableForBase:      true,
			SuitableForBuild:     true,
			SuitableForSpecialty: true,
			Tags:                 []string{"recovery", "easy", "regeneration"},
		},
		{
			Name:                "Recovery Ride",
			ShortName:           "Recovery 60min",
			Description:         "Extended easy ride for active recovery",
			PrimaryZone:         domain.ZoneRecovery,
			Type:                domain.TypeSteadyState,
			MinProgressionLevel: 1.0,
			MaxProgressionLevel: 10.0,
			DifficultyScore:     1.5,
			Duration:            3600,
			WorkDuration:        3600,
			EstimatedTSS:        30.0,
			IntensityFactor:     0.45,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalSteady, Duration: 3600, Power: 0.50},
			},
			SuitableForBase:      true,
			SuitableForBuild:     true,
			SuitableForSpecialty: true,
			Tags:                 []string{"recovery", "easy", "regeneration"},
		},

		// Endurance (Z2)
		{
			Name:                "Base Endurance 90",
			ShortName:           "Endurance 90min",
			Description:         "Steady aerobic endurance ride",
			PrimaryZone:         domain.ZoneEndurance,
			Type:                domain.TypeSteadyState,
			MinProgressionLevel: 2.0,
			MaxProgressionLevel: 6.0,
			DifficultyScore:     3.0,
			Duration:            5400,
			WorkDuration:        5400,
			EstimatedTSS:        60.0,
			IntensityFactor:     0.65,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 600, Power: 0.55},
				{Kind: domain.IntervalSteady, Duration: 4200, Power: 0.65},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBase:  true,
			SuitableForBuild: true,
			Tags:             []string{"endurance", "aerobic", "base"},
		},
		{
			Name:                "Long Endurance Ride",
			ShortName:           "Endurance 2hr",
			Description:         "Extended aerobic base building ride",
			PrimaryZone:         domain.ZoneEndurance,
			Type:                domain.TypeSteadyState,
			MinProgressionLevel: 3.0,
			MaxProgressionLevel: 7.0,
			DifficultyScore:     4.0,
			Duration:            7200,
			WorkDuration:        7200,
			EstimatedTSS:        85.0,
			IntensityFactor:     0.65,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalSteady, Duration: 5400, Power: 0.65},
				{Kind: domain.IntervalCooldown, Duration: 900, Power: 0.55},
			},
			SuitableForBase:  true,
			SuitableForBuild: true,
			Tags:             []string{"endurance", "aerobic", "long_ride"},
		},
		{
			Name:                "Epic Endurance",
			ShortName:           "Endurance 3hr",
			Description:         "Long aerobic ride for endurance development",
			PrimaryZone:         domain.ZoneEndurance,
			Type:                domain.TypeSteadyState,
			MinProgressionLevel: 4.0,
			MaxProgressionLevel: 8.0,
			DifficultyScore:     5.5,
			Duration:            10800,
			WorkDuration:        10800,
			EstimatedTSS:        135.0,
			IntensityFactor:     0.67,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 1200, Power: 0.55},
				{Kind: domain.IntervalSteady, Duration: 8400, Power: 0.67},
				{Kind: domain.IntervalCooldown, Duration: 1200, Power: 0.55},
			},
			SuitableForBase: true,
			Tags:            []string{"endurance", "aerobic", "long_ride", "century_prep"},
		},

		// Tempo (Z3)
		{
			Name:                "Tempo Intervals 2x20",
			ShortName:           "Tempo 2x20",
			Description:         "Two 20-minute tempo intervals",
			PrimaryZone:         domain.ZoneTempo,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 2.0,
			MaxProgressionLevel: 5.0,
			DifficultyScore:     4.5,
			Duration:            4200,
			WorkDuration:        2400,
			EstimatedTSS:        65.0,
			IntensityFactor:     0.78,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 1200, Power: 0.82, Repeats: 2},
				{Kind: domain.IntervalRecovery, Duration: 300, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBase:  true,
			SuitableForBuild: true,
			Tags:             []string{"tempo", "muscular_endurance"},
		},
		{
			Name:                "Tempo Intervals 3x15",
			ShortName:           "Tempo 3x15",
			Description:         "Three 15-minute tempo intervals",
			PrimaryZone:         domain.ZoneTempo,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 2.5,
			MaxProgressionLevel: 5.5,
			DifficultyScore:     5.0,
			Duration:            4500,
			WorkDuration:        2700,
			EstimatedTSS:        70.0,
			IntensityFactor:     0.79,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 900, Power: 0.83, Repeats: 3},
				{Kind: domain.IntervalRecovery, Duration: 300, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBase:  true,
			SuitableForBuild: true,
			Tags:             []string{"tempo", "muscular_endurance"},
		},
		{
			Name:                "Sustained Tempo",
			ShortName:           "Tempo 60min",
			Description:         "Single 60-minute tempo effort",
			PrimaryZone:         domain.ZoneTempo,
			Type:                domain.TypeSteadyState,
			MinProgressionLevel: 4.0,
			MaxProgressionLevel: 7.0,
			DifficultyScore:     6.0,
			Duration:            5400,
			WorkDuration:        3600,
			EstimatedTSS:        85.0,
			IntensityFactor:     0.80,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 3600, Power: 0.80},
				{Kind: domain.IntervalCooldown, Duration: 900, Power: 0.55},
			},
			SuitableForBase:  true,
			SuitableForBuild: true,
			Tags:             []string{"tempo", "muscular_endurance", "time_trial"},
		},

		// Sweet spot (Z4a)
		{
			Name:                "Sweet Spot 3x10",
			ShortName:           "SS 3x10",
			Description:         "Three 10-minute sweet spot intervals",
			PrimaryZone:         domain.ZoneSweetSpot,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 2.0,
			MaxProgressionLevel: 4.5,
			DifficultyScore:     5.0,
			Duration:            3900,
			WorkDuration:        1800,
			EstimatedTSS:        70.0,
			IntensityFactor:     0.86,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 600, Power: 0.90, Repeats: 3},
				{Kind: domain.IntervalRecovery, Duration: 180, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBase:  true,
			SuitableForBuild: true,
			Tags:             []string{"sweet_spot", "ftp_builder", "time_efficient"},
		},
		{
			Name:                "Sweet Spot 3x12",
			ShortName:           "SS 3x12",
			Description:         "Three 12-minute sweet spot intervals",
			PrimaryZone:         domain.ZoneSweetSpot,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 2.5,
			MaxProgressionLevel: 5.0,
			DifficultyScore:     5.5,
			Duration:            4200,
			WorkDuration:        2160,
			EstimatedTSS:        75.0,
			IntensityFactor:     0.86,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 720, Power: 0.90, Repeats: 3},
				{Kind: domain.IntervalRecovery, Duration: 180, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBase:  true,
			SuitableForBuild: true,
			Tags:             []string{"sweet_spot", "ftp_builder", "time_efficient"},
		},
		{
			Name:                "Sweet Spot 2x20",
			ShortName:           "SS 2x20",
			Description:         "Two 20-minute sweet spot intervals",
			PrimaryZone:         domain.ZoneSweetSpot,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 3.5,
			MaxProgressionLevel: 6.0,
			DifficultyScore:     6.5,
			Duration:            4800,
			WorkDuration:        2400,
			EstimatedTSS:        85.0,
			IntensityFactor:     0.87,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 1200, Power: 0.90, Repeats: 2},
				{Kind: domain.IntervalRecovery, Duration: 300, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBase:  true,
			SuitableForBuild: true,
			Tags:             []string{"sweet_spot", "ftp_builder", "muscular_endurance"},
		},
		{
			Name:                "Sweet Spot 4x10",
			ShortName:           "SS 4x10",
			Description:         "Four 10-minute sweet spot intervals",
			PrimaryZone:         domain.ZoneSweetSpot,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 3.0,
			MaxProgressionLevel: 5.5,
			DifficultyScore:     6.0,
			Duration:            4500,
			WorkDuration:        2400,
			EstimatedTSS:        80.0,
			IntensityFactor:     0.87,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 600, Power: 0.92, Repeats: 4},
				{Kind: domain.IntervalRecovery, Duration: 180, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBuild: true,
			Tags:             []string{"sweet_spot", "ftp_builder"},
		},

		// Threshold (Z4b)
		{
			Name:                "Threshold 4x8",
			ShortName:           "Threshold 4x8",
			Description:         "Four 8-minute threshold intervals",
			PrimaryZone:         domain.ZoneThreshold,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 2.0,
			MaxProgressionLevel: 4.5,
			DifficultyScore:     6.0,
			Duration:            4200,
			WorkDuration:        1920,
			EstimatedTSS:        80.0,
			IntensityFactor:     0.92,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 480, Power: 1.00, Repeats: 4},
				{Kind: domain.IntervalRecovery, Duration: 240, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBuild:     true,
			SuitableForSpecialty: true,
			Tags:                 []string{"threshold", "ftp_builder", "lactate_threshold"},
		},
		{
			Name:                "Threshold 3x10",
			ShortName:           "Threshold 3x10",
			Description:         "Three 10-minute threshold intervals",
			PrimaryZone:         domain.ZoneThreshold,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 2.5,
			MaxProgressionLevel: 5.0,
			DifficultyScore:     6.5,
			Duration:            4500,
			WorkDuration:        1800,
			EstimatedTSS:        85.0,
			IntensityFactor:     0.92,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 600, Power: 1.00, Repeats: 3},
				{Kind: domain.IntervalRecovery, Duration: 300, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBuild:     true,
			SuitableForSpecialty: true,
			Tags:                 []string{"threshold", "ftp_builder", "lactate_threshold"},
		},
		{
			Name:                "Threshold 2x20",
			ShortName:           "Threshold 2x20",
			Description:         "Two 20-minute threshold intervals",
			PrimaryZone:         domain.ZoneThreshold,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 4.0,
			MaxProgressionLevel: 7.0,
			DifficultyScore:     8.0,
			Duration:            5400,
			WorkDuration:        2400,
			EstimatedTSS:        100.0,
			IntensityFactor:     0.95,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 1200, Power: 0.95, Repeats: 2},
				{Kind: domain.IntervalRecovery, Duration: 600, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBuild:     true,
			SuitableForSpecialty: true,
			Tags:                 []string{"threshold", "ftp_test", "time_trial"},
		},
		{
			Name:                "Over-Unders 6x6",
			ShortName:           "O/U 6x6",
			Description:         "Six 6-minute over-under intervals",
			PrimaryZone:         domain.ZoneThreshold,
			SecondaryZone:       domain.ZoneSweetSpot,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 3.0,
			MaxProgressionLevel: 6.0,
			DifficultyScore:     7.0,
			Duration:            4500,
			WorkDuration:        2160,
			EstimatedTSS:        90.0,
			IntensityFactor:     0.93,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 120, Power: 1.05, Repeats: 6},
				{Kind: domain.IntervalWork, Duration: 240, Power: 0.90, Repeats: 6},
				{Kind: domain.IntervalRecovery, Duration: 180, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBuild:     true,
			SuitableForSpecialty: true,
			Tags:                 []string{"threshold", "over_under", "lactate_tolerance"},
		},

		// VO2 max (Z5)
		{
			Name:                "VO2 Max 6x3",
			ShortName:           "VO2 6x3",
			Description:         "Six 3-minute VO2 max intervals",
			PrimaryZone:         domain.ZoneVO2Max,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 2.0,
			MaxProgressionLevel: 4.5,
			DifficultyScore:     7.0,
			Duration:            4200,
			WorkDuration:        1080,
			EstimatedTSS:        85.0,
			IntensityFactor:     0.98,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 180, Power: 1.15, Repeats: 6},
				{Kind: domain.IntervalRecovery, Duration: 180, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBuild:     true,
			SuitableForSpecialty: true,
			Tags:                 []string{"vo2max", "aerobic_capacity", "high_intensity"},
		},
		{
			Name:                "VO2 Max 5x5",
			ShortName:           "VO2 5x5",
			Description:         "Five 5-minute VO2 max intervals",
			PrimaryZone:         domain.ZoneVO2Max,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 3.0,
			MaxProgressionLevel: 6.0,
			DifficultyScore:     8.0,
			Duration:            4800,
			WorkDuration:        1500,
			EstimatedTSS:        95.0,
			IntensityFactor:     1.00,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 300, Power: 1.12, Repeats: 5},
				{Kind: domain.IntervalRecovery, Duration: 300, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBuild:     true,
			SuitableForSpecialty: true,
			Tags:                 []string{"vo2max", "aerobic_capacity", "high_intensity"},
		},
		{
			Name:                "VO2 Max 3x8",
			ShortName:           "VO2 3x8",
			Description:         "Three 8-minute VO2 max intervals",
			PrimaryZone:         domain.ZoneVO2Max,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 4.0,
			MaxProgressionLevel: 7.5,
			DifficultyScore:     8.5,
			Duration:            5100,
			WorkDuration:        1440,
			EstimatedTSS:        100.0,
			IntensityFactor:     1.02,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 480, Power: 1.10, Repeats: 3},
				{Kind: domain.IntervalRecovery, Duration: 360, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForSpecialty: true,
			Tags:                 []string{"vo2max", "aerobic_capacity", "high_intensity"},
		},
		{
			Name:                "Micro Bursts 10x1",
			ShortName:           "Micro 10x1",
			Description:         "Ten 1-minute micro bursts at VO2 max",
			PrimaryZone:         domain.ZoneVO2Max,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 2.5,
			MaxProgressionLevel: 5.0,
			DifficultyScore:     7.5,
			Duration:            3600,
			WorkDuration:        600,
			EstimatedTSS:        75.0,
			IntensityFactor:     0.95,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 60, Power: 1.20, Repeats: 10},
				{Kind: domain.IntervalRecovery, Duration: 120, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBuild:     true,
			SuitableForSpecialty: true,
			Tags:                 []string{"vo2max", "micro_bursts", "high_intensity"},
		},

		// Anaerobic (Z6)
		{
			Name:                "Anaerobic 10x30sec",
			ShortName:           "Anaerobic 10x30",
			Description:         "Ten 30-second anaerobic efforts",
			PrimaryZone:         domain.ZoneAnaerobic,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 2.0,
			MaxProgressionLevel: 5.0,
			DifficultyScore:     7.5,
			Duration:            3600,
			WorkDuration:        300,
			EstimatedTSS:        70.0,
			IntensityFactor:     0.92,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 30, Power: 1.50, Repeats: 10},
				{Kind: domain.IntervalRecovery, Duration: 180, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForSpecialty: true,
			Tags:                 []string{"anaerobic", "sprint", "power"},
		},
		{
			Name:                "Sprint Intervals 8x20sec",
			ShortName:           "Sprint 8x20",
			Description:         "Eight 20-second all-out sprints",
			PrimaryZone:         domain.ZoneAnaerobic,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 2.5,
			MaxProgressionLevel: 6.0,
			DifficultyScore:     8.0,
			Duration:            3300,
			WorkDuration:        160,
			EstimatedTSS:        65.0,
			IntensityFactor:     0.88,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 20, Power: 2.00, Repeats: 8},
				{Kind: domain.IntervalRecovery, Duration: 220, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForSpecialty: true,
			Tags:                 []string{"anaerobic", "sprint", "neuromuscular"},
		},
		{
			Name:                "Tabata Intervals",
			ShortName:           "Tabata 8x20/10",
			Description:         "Eight rounds of 20sec on, 10sec off",
			PrimaryZone:         domain.ZoneAnaerobic,
			Type:                domain.TypeIntervals,
			MinProgressionLevel: 3.0,
			MaxProgressionLevel: 7.0,
			DifficultyScore:     8.5,
			Duration:            3000,
			WorkDuration:        160,
			EstimatedTSS:        60.0,
			IntensityFactor:     0.85,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 20, Power: 1.80, Repeats: 8},
				{Kind: domain.IntervalRecovery, Duration: 10, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForSpecialty: true,
			Tags:                 []string{"anaerobic", "tabata", "high_intensity"},
		},

		// Mixed zone
		{
			Name:                "Pyramid Intervals",
			ShortName:           "Pyramid",
			Description:         "1-2-3-4-3-2-1 minute intervals at threshold",
			PrimaryZone:         domain.ZoneThreshold,
			SecondaryZone:       domain.ZoneVO2Max,
			Type:                domain.TypeMixed,
			MinProgressionLevel: 3.5,
			MaxProgressionLevel: 6.5,
			DifficultyScore:     7.5,
			Duration:            4800,
			WorkDuration:        960,
			EstimatedTSS:        90.0,
			IntensityFactor:     0.94,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 60, Power: 1.00},
				{Kind: domain.IntervalRecovery, Duration: 60, Power: 0.50},
				{Kind: domain.IntervalWork, Duration: 120, Power: 1.00},
				{Kind: domain.IntervalRecovery, Duration: 120, Power: 0.50},
				{Kind: domain.IntervalWork, Duration: 180, Power: 1.00},
				{Kind: domain.IntervalRecovery, Duration: 180, Power: 0.50},
				{Kind: domain.IntervalWork, Duration: 240, Power: 1.00},
				{Kind: domain.IntervalRecovery, Duration: 240, Power: 0.50},
				{Kind: domain.IntervalWork, Duration: 180, Power: 1.00},
				{Kind: domain.IntervalRecovery, Duration: 180, Power: 0.50},
				{Kind: domain.IntervalWork, Duration: 120, Power: 1.00},
				{Kind: domain.IntervalRecovery, Duration: 120, Power: 0.50},
				{Kind: domain.IntervalWork, Duration: 60, Power: 1.00},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBuild:     true,
			SuitableForSpecialty: true,
			Tags:                 []string{"mixed", "threshold", "variety"},
		},
		{
			Name:                "Race Simulation",
			ShortName:           "Race Sim",
			Description:         "Mixed intensity ride simulating race efforts",
			PrimaryZone:         domain.ZoneThreshold,
			SecondaryZone:       domain.ZoneVO2Max,
			Type:                domain.TypeMixed,
			MinProgressionLevel: 5.0,
			MaxProgressionLevel: 8.0,
			DifficultyScore:     9.0,
			Duration:            5400,
			WorkDuration:        3600,
			EstimatedTSS:        110.0,
			IntensityFactor:     1.05,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalSteady, Duration: 1200, Power: 0.85},
				{Kind: domain.IntervalWork, Duration: 180, Power: 1.15, Repeats: 3},
				{Kind: domain.IntervalRecovery, Duration: 120, Power: 0.60},
				{Kind: domain.IntervalWork, Duration: 300, Power: 1.05},
				{Kind: domain.IntervalRecovery, Duration: 180, Power: 0.60},
				{Kind: domain.IntervalWork, Duration: 60, Power: 1.50, Repeats: 5},
				{Kind: domain.IntervalRecovery, Duration: 60, Power: 0.60},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForSpecialty: true,
			Tags:                 []string{"mixed", "race_prep", "high_intensity"},
		},

		// FTP tests
		{
			Name:                "Ramp Test",
			ShortName:           "Ramp Test",
			Description:         "Progressive ramp test to failure for FTP assessment",
			PrimaryZone:         domain.ZoneThreshold,
			Type:                domain.TypeTest,
			MinProgressionLevel: 1.0,
			MaxProgressionLevel: 10.0,
			DifficultyScore:     9.0,
			Duration:            3600,
			WorkDuration:        1200,
			EstimatedTSS:        75.0,
			IntensityFactor:     0.90,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalRamp, Duration: 1200, PowerLow: 0.50, PowerHigh: 1.50, StepDuration: 60, Steps: 20},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBase:      true,
			SuitableForBuild:     true,
			SuitableForSpecialty: true,
			Tags:                 []string{"test", "ftp", "ramp"},
		},
		{
			Name:                "8-Minute FTP Test",
			ShortName:           "8min Test",
			Description:         "Two 8-minute all-out efforts for FTP assessment",
			PrimaryZone:         domain.ZoneThreshold,
			Type:                domain.TypeTest,
			MinProgressionLevel: 1.0,
			MaxProgressionLevel: 10.0,
			DifficultyScore:     9.5,
			Duration:            4500,
			WorkDuration:        960,
			EstimatedTSS:        85.0,
			IntensityFactor:     0.95,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 480, Power: 1.10, Repeats: 2},
				{Kind: domain.IntervalRecovery, Duration: 600, Power: 0.50},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBase:      true,
			SuitableForBuild:     true,
			SuitableForSpecialty: true,
			Tags:                 []string{"test", "ftp", "8_minute"},
		},
		{
			Name:                "20-Minute FTP Test",
			ShortName:           "20min Test",
			Description:         "Single 20-minute all-out effort for FTP assessment",
			PrimaryZone:         domain.ZoneThreshold,
			Type:                domain.TypeTest,
			MinProgressionLevel: 1.0,
			MaxProgressionLevel: 10.0,
			DifficultyScore:     10.0,
			Duration:            4800,
			WorkDuration:        1200,
			EstimatedTSS:        90.0,
			IntensityFactor:     0.95,
			Intervals: []domain.Interval{
				{Kind: domain.IntervalWarmup, Duration: 900, Power: 0.55},
				{Kind: domain.IntervalWork, Duration: 300, Power: 1.00},
				{Kind: domain.IntervalRecovery, Duration: 600, Power: 0.50},
				{Kind: domain.IntervalWork, Duration: 1200, Power: 1.00},
				{Kind: domain.IntervalCooldown, Duration: 600, Power: 0.55},
			},
			SuitableForBase:      true,
			SuitableForBuild:     true,
			SuitableForSpecialty: true,
			Tags:                 []string{"test", "ftp", "20_minute"},
		},
	}
}
