package tasks

// defaultPool is the built-in list of tasks
var defaultPool = []string{
	// simple actions
	"Clap your hands 10 times",
	"Stand on one foot for 5 seconds",
	"Say the alphabet backwards",
	"Hum your favourite song",
	"Make 3 different animal sounds",
	"Touch your nose with your eyes closed",
	"Smile for 10 seconds straight",
	"Name your favourite colour and explain why",

	// creative
	"Make up a short poem",
	"Count 5 objects around you",
	"Tell your funniest memory",
	"Pick a superpower and explain why",
	"Describe your childhood dream job",
	"Name the strangest food you have eaten",
	"Talk like a robot",
	"Impersonate a movie character",

	// social
	"Describe your favourite hobby",
	"Thank someone in the room",
	"Share one good thing about today",
	"Name your favourite season",
	"Describe the last dream you remember",
	"Name a local musician",
	"Recommend a favourite book or film",
	"Describe your favourite childhood toy",

	// challenges
	"Write ABC with your eyes closed",
	"Stay completely silent for 5 seconds",
	"Count from 1 to 20 as fast as you can",
	"Make a funny face",
	"Show off your favourite dance move",
	"Make a sentence using your favourite emoji",
	"Make up a limerick",
	"Confess your weirdest habit",

	// thought provoking
	"Would you live on Mars?",
	"What would you do if you were invisible?",
	"Name your biggest fear",
	"Which era of history would you visit?",
	"Name the most beautiful place on earth",
	"Name your favourite cartoon character",
	"Tell the funniest story from school",
	"What would you do without technology?",

	// quick thinking
	"Name 5 red things",
	"Say 5 words starting with K",
	"Name your top 3 pizza toppings",
	"Name 5 things found in a kitchen",
	"Name your 3 favourite fruits",
	"Name 5 school subjects",
	"Name your 3 favourite animals",
	"Name the 3 most useful things in your home",
}

// DefaultPool returns a copy of the built-in task list
func DefaultPool() []string {
	return append([]string(nil), defaultPool...)
}
