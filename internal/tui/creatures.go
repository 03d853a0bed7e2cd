package tui

import "moltmon/internal/domain/care"

// Creature agrupa los frames ASCII y los sonidos de una criatura.
type Creature struct {
	ID     string
	Kind   string
	Sounds Sounds

	Egg   [][]string
	Hatch [][]string
	Idle  [][]string
	Sick  [][]string
	Dead  []string
	Poop  []string
}

type Sounds struct {
	Idle   string
	Hungry string
	Sick   string
}

var eggFrames = [][]string{
	{
		"   ____   ",
		"  /    \\  ",
		" |  ..  | ",
		" |      | ",
		"  \\____/  ",
	},
	{
		"   ____   ",
		"  / .  \\  ",
		" |   .  | ",
		" |      | ",
		"  \\____/  ",
	},
	{
		"          ",
		"   ____   ",
		"  / .. \\  ",
		" |      | ",
		"  \\____/  ",
	},
}

var blueCat = Creature{
	ID:   care.CreatureBlueCat,
	Kind: "cat",
	Sounds: Sounds{
		Idle:   "nyaa~",
		Hungry: "nya... hungry...",
		Sick:   "*cough* nya...",
	},
	Egg: eggFrames,
	Hatch: [][]string{
		{"   ____   ", "  / /  \\  ", " | /..  | ", " |      | ", "  \\____/  "},
		{"   ____   ", "  / /\\ \\  ", " | /..\\ | ", " |      | ", "  \\____/  "},
		{"   _  _   ", "  / \\/ \\  ", " | /\\_/\\| ", " |      | ", "  \\____/  "},
		{"          ", "   /\\_/\\  ", "  _( o.o) ", " |  > ^ <|", "  \\____/  "},
		{"          ", "   /\\_/\\  ", "  ( o.o ) ", "   > ^ <  ", "  ~~~~~~  "},
	},
	Idle: [][]string{
		{"          ", "  /\\_/\\   ", " ( o.o )  ", "  > ^ <   ", " (_)-(_)  "},
		{"  /\\_/\\   ", " ( o.o )  ", "  > ^ <   ", " (_)-(_)  ", "          "},
		{"          ", "   /\\_/\\  ", "  ( o.o ) ", "   > ^ <  ", "  (_)-(_) "},
		{"   /\\_/\\  ", "  ( o.o ) ", "   > ^ <  ", "  (_)-(_) ", "          "},
	},
	Sick: [][]string{
		{"          ", "  /\\_/\\   ", " ( x.x )  ", "  > ~ <   ", " (_)-(_)  "},
		{"          ", "  /\\_/\\   ", " ( -.- )  ", "  > ~ <   ", " (_)-(_)  "},
	},
	Dead: []string{"          ", "  /\\_/\\   ", " ( x_x )  ", "  > . <   ", " ~~~~~~~  "},
	Poop: []string{" ~ ", "(@)"},
}

var pinkDog = Creature{
	ID:   care.CreaturePinkDog,
	Kind: "dog",
	Sounds: Sounds{
		Idle:   "woof!",
		Hungry: "*whimper* food?",
		Sick:   "*cough* woof...",
	},
	Egg: eggFrames,
	Hatch: [][]string{
		{"   ____   ", "  / /  \\  ", " | /..  | ", " |      | ", "  \\____/  "},
		{"   ____   ", "  / /\\ \\  ", " | /..\\ | ", " |      | ", "  \\____/  "},
		{"   _  _   ", "  / \\/ \\  ", " |(\\__/)| ", " |      | ", "  \\____/  "},
		{"          ", "  (\\__/)  ", " _(o  o)  ", "| ( oo )| ", "  \\____/  "},
		{"          ", "  (\\__/)  ", "  (o  o)  ", "  ( oo )  ", "  ~~~~~~  "},
	},
	Idle: [][]string{
		{"          ", " (\\__/)   ", " (o  o)   ", " ( oo )   ", " U    U   "},
		{" (\\__/)   ", " (o  o)   ", " ( oo )   ", " U    U   ", "          "},
		{"          ", "   (\\__/) ", "   (o  o) ", "   ( oo ) ", "   U    U "},
		{"   (\\__/) ", "   (o  o) ", "   ( oo ) ", "   U    U ", "          "},
	},
	Sick: [][]string{
		{"          ", " (\\__/)   ", " (x  x)   ", " ( ~~ )   ", " U    U   "},
		{"          ", " (\\__/)   ", " (-  -)   ", " ( ~~ )   ", " U    U   "},
	},
	Dead: []string{"          ", " (\\__/)   ", " (x  x)   ", " ( .. )   ", " ~~~~~~~  "},
	Poop: []string{" ~ ", "(@)"},
}

var creatures = map[string]Creature{
	blueCat.ID: blueCat,
	pinkDog.ID: pinkDog,
}

// CreatureFor devuelve la criatura del id, o el gato si no se conoce
// (el huevo todavía no tiene criatura).
func CreatureFor(id string) Creature {
	if c, ok := creatures[id]; ok {
		return c
	}
	return blueCat
}
