package fixtures

import (
	"time"

	"vacationblog/app/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SeedPosts returns the built-in article set shown while the backend is
// unreachable.
func SeedPosts() []models.Post {
	return []models.Post{
		{
			ID:            1,
			Slug:          "safety-first",
			Title:         "Safety First: The Importance of Background Checks for Professional Drivers",
			Category:      "Safety",
			Author:        "Adnan Shaikh",
			AuthorAvatar:  "/images/avatar1.jpg",
			FeaturedImage: "/images/blog1.jpg",
			CreatedAt:     date(2024, time.December, 13),
			Published:     true,
			Excerpt:       "Why thorough background checks are the foundation of a trustworthy driver service.",
			Content: `<p>One of the most critical steps in upholding our commitment to safety is conducting thorough background checks on our professional drivers.</p>
<h2>The Significance of Background Checks</h2>
<h3>Trust and Reliability</h3>
<p>Background checks instill trust and confidence in passengers, ensuring them that they are entrusting their safety to qualified and trustworthy drivers.</p>
<h3>Verification of Driving Record</h3>
<p>A driver's driving history ensures they have a clean record and are qualified to operate vehicles safely.</p>
<h2>Continuous Improvement</h2>
<p>Safety is not just a priority; it's a fundamental principle that guides every aspect of our operations.</p>`,
		},
		{
			ID:            2,
			Slug:          "exploring-the-nightlife-with-a-dedicated-night-driver",
			Title:         "Exploring the Nightlife of Your City with a Dedicated Night Driver",
			Category:      "Nightlife",
			Author:        "Rahul Sharma",
			AuthorAvatar:  "/images/avatar2.jpg",
			FeaturedImage: "/images/blog2.jpg",
			CreatedAt:     date(2024, time.December, 13),
			Published:     true,
			Excerpt:       "A responsible and convenient way to enjoy the city after dark.",
			Content: `<p>When the city lights come alive, the possibilities for a vibrant night out are endless. A dedicated night driver offers a responsible and convenient way to explore the city after dark.</p>
<h2>The Benefits of a Night Driver</h2>
<h3>Safety First</h3>
<p>After a night of celebration, you can rely on a professional driver to get you home safely.</p>
<h3>Local Knowledge</h3>
<p>Night drivers know the best routes to avoid traffic and the quickest ways to reach your destination.</p>`,
		},
		{
			ID:            3,
			Slug:          "top-destinations-from-mumbai",
			Title:         "Top Destinations from Mumbai for a Relaxing Driver-Driven Experience",
			Category:      "Travel",
			Author:        "Priya Patel",
			AuthorAvatar:  "/images/avatar3.jpg",
			FeaturedImage: "/images/blog3.jpg",
			CreatedAt:     date(2024, time.December, 13),
			Published:     true,
			Excerpt:       "Weekend getaways best enjoyed from the passenger seat.",
			Content: `<p>From misty hill stations to quiet coastal towns, the roads out of Mumbai lead to some remarkable weekend getaways, best enjoyed from the passenger seat.</p>
<h2>Where to Go</h2>
<p>Lonavala, Alibaug and Nashik all sit within a comfortable half-day drive, each with its own character.</p>`,
		},
		{
			ID:            4,
			Slug:          "tips-for-a-comfortable-outstation-journey",
			Title:         "Tips for a Comfortable Journey with a Driver for Outstation Trips",
			Category:      "Travel",
			FeaturedImage: "/images/blog4.jpg",
			CreatedAt:     date(2024, time.December, 12),
			Published:     true,
			Excerpt:       "Small preparations that make long road trips easier.",
			Content: `<p>Long road trips are easier when someone else is behind the wheel. A few small preparations make them easier still.</p>
<h2>Plan the Stops</h2>
<p>Agree on rest stops with your driver before setting out, and keep the schedule loose enough to enjoy them.</p>`,
		},
		{
			ID:            5,
			Slug:          "choosing-a-driver-service-for-corporate-events",
			Title:         "How to Choose the Right Driver Service for Your Corporate Events",
			Category:      "Business",
			FeaturedImage: "/images/blog5.jpg",
			CreatedAt:     date(2024, time.December, 11),
			Published:     true,
			Excerpt:       "What to look for when transport is part of the first impression.",
			Content: `<p>Corporate events run on schedules, and transport is the part of the schedule most likely to slip. Choosing the right driver service keeps it on track.</p>
<h2>What to Look For</h2>
<p>Punctuality records, uniformed drivers and transparent billing matter more than fleet size.</p>`,
		},
		{
			ID:            6,
			Slug:          "benefits-of-a-professional-driver-for-airport-transfers",
			Title:         "The Benefits of Hiring a Professional Driver for Airport Transfers",
			Category:      "Travel",
			FeaturedImage: "/images/blog6.jpg",
			CreatedAt:     date(2024, time.December, 10),
			Published:     true,
			Excerpt:       "Catch flights, not parking tickets.",
			Content: `<p>Flights are stressful enough without worrying about parking. A professional driver turns the airport run into the calmest part of the trip.</p>
<h2>Door to Gate</h2>
<p>Your driver tracks the flight, adjusts for delays and meets you at arrivals.</p>`,
		},
	}
}

// SeedComments returns the built-in comments. All are approved so they show
// up in degraded comment listings.
func SeedComments() []models.Comment {
	return []models.Comment{
		{
			ID:        1,
			PostID:    1,
			Name:      "Meera Iyer",
			Email:     "meera@example.com",
			Content:   "Good to see this spelled out. Background checks were the first thing I asked about.",
			Approved:  true,
			CreatedAt: date(2024, time.December, 14),
		},
		{
			ID:        2,
			PostID:    1,
			Name:      "Sandeep Rao",
			Email:     "sandeep@example.com",
			Content:   "Booked a driver last month and the verification process was reassuring.",
			Approved:  true,
			CreatedAt: date(2024, time.December, 15),
		},
		{
			ID:        3,
			PostID:    2,
			Name:      "Anita Desai",
			Email:     "anita@example.com",
			Content:   "Used a night driver for a concert run, worked out great.",
			Approved:  true,
			CreatedAt: date(2024, time.December, 14),
		},
	}
}
