package repository

import (
	"time"

	"github.com/okian/huddle/internal/domain/model"
)

// SeedEvents returns the built-in demo catalog used when no catalog file
// is configured.
func SeedEvents() []model.Event {
	ts := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	return []model.Event{
		{
			ID: "1", Title: "Animal Shelter Volunteer Day",
			Description: "Help care for rescued animals and assist with adoption events. Perfect for animal lovers!",
			Category:    "Animal Rights", Location: "Downtown Animal Shelter", Date: "2024-02-15", Time: "10:00",
			Capacity: 20, Attendees: 8, HostID: "host1", HostName: "Sarah Johnson",
			CreatedAt: ts("2024-01-20T10:00:00Z"), Tags: []string{"volunteering", "animals", "community"},
		},
		{
			ID: "2", Title: "Vegan Cooking Workshop",
			Description: "Learn to cook delicious plant-based meals with local chefs. All skill levels welcome!",
			Category:    "Vegan", Location: "Community Kitchen", Date: "2024-02-18", Time: "14:00",
			Capacity: 15, Attendees: 12, HostID: "host2", HostName: "Mike Chen",
			CreatedAt: ts("2024-01-18T15:30:00Z"), Tags: []string{"vegan", "cooking", "education"},
		},
		{
			ID: "3", Title: "Pride Parade Planning Meeting",
			Description: "Join us in organizing this year's Pride Parade. Help make it the best celebration yet!",
			Category:    "Pride", Location: "LGBTQ+ Community Center", Date: "2024-02-20", Time: "19:00",
			Capacity: 30, Attendees: 18, HostID: "host3", HostName: "Alex Rivera",
			CreatedAt: ts("2024-01-15T12:00:00Z"), Tags: []string{"pride", "lgbtq", "community", "planning"},
		},
		{
			ID: "4", Title: "Texas Hunting Club Meeting",
			Description: "Monthly meeting for hunting enthusiasts. Discuss conservation, safety, and upcoming hunts.",
			Category:    "Hunting", Location: "Wildlife Conservation Center", Date: "2024-02-22", Time: "18:30",
			Capacity: 25, Attendees: 15, HostID: "host4", HostName: "Jake Thompson",
			CreatedAt: ts("2024-01-22T09:00:00Z"), Tags: []string{"hunting", "conservation", "outdoor", "texas"},
		},
		{
			ID: "5", Title: "Environmental Cleanup Drive",
			Description: "Help clean up local parks and waterways. Make a difference for our environment!",
			Category:    "Environmental", Location: "Riverside Park", Date: "2024-02-25", Time: "09:00",
			Capacity: 40, Attendees: 22, HostID: "host5", HostName: "Emma Wilson",
			CreatedAt: ts("2024-01-25T14:20:00Z"), Tags: []string{"environment", "cleanup", "volunteering", "outdoor"},
		},
		{
			ID: "6", Title: "Tech Startup Networking",
			Description: "Connect with fellow entrepreneurs and tech professionals. Share ideas and opportunities.",
			Category:    "Technology", Location: "Innovation Hub", Date: "2024-02-28", Time: "17:00",
			Capacity: 50, Attendees: 35, HostID: "host6", HostName: "David Park",
			CreatedAt: ts("2024-01-28T11:15:00Z"), Tags: []string{"networking", "technology", "startup", "business"},
		},
		{
			ID: "7", Title: "Art Gallery Opening",
			Description: "Experience contemporary art from local artists. Wine and cheese reception included.",
			Category:    "Art", Location: "Modern Art Gallery", Date: "2024-03-01", Time: "18:00",
			Capacity: 60, Attendees: 28, HostID: "host7", HostName: "Lisa Martinez",
			CreatedAt: ts("2024-01-30T16:45:00Z"), Tags: []string{"art", "gallery", "culture", "networking"},
		},
		{
			ID: "8", Title: "Fitness Bootcamp",
			Description: "High-intensity workout session for all fitness levels. Bring water and towel!",
			Category:    "Fitness", Location: "Central Park", Date: "2024-03-03", Time: "07:00",
			Capacity: 30, Attendees: 20, HostID: "host8", HostName: "Carlos Rodriguez",
			CreatedAt: ts("2024-02-01T08:30:00Z"), Tags: []string{"fitness", "workout", "outdoor", "health"},
		},
		{
			ID: "9", Title: "Live Music Concert",
			Description: "Local indie bands performing original music. Food trucks and drinks available.",
			Category:    "Music", Location: "Downtown Music Hall", Date: "2024-03-05", Time: "20:00",
			Capacity: 200, Attendees: 150, HostID: "host9", HostName: "Jordan Kim",
			CreatedAt: ts("2024-02-03T12:15:00Z"), Tags: []string{"music", "concert", "live", "entertainment"},
		},
		{
			ID: "10", Title: "Science Fair",
			Description: "Interactive science exhibits and experiments for all ages. Learn while having fun!",
			Category:    "Science", Location: "Science Museum", Date: "2024-03-08", Time: "10:00",
			Capacity: 100, Attendees: 45, HostID: "host10", HostName: "Dr. Maria Santos",
			CreatedAt: ts("2024-02-05T14:20:00Z"), Tags: []string{"science", "education", "experiments", "family"},
		},
	}
}
