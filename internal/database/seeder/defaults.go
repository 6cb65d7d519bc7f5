package seeder

import "time"

func Defaults(now time.Time) []Seeder {
	return []Seeder{
		CoursesSeeder{Now: now},
		OpportunitiesSeeder{Now: now},
	}
}
