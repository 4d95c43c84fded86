package bot

import "fmt"

const (
	commandRank        = "rank"
	commandLeaderboard = "leaderboard"
	commandVoiceStats  = "voicestats"
	commandHelp        = "help"
	commandPing        = "ping"
	commandRoast       = "roast"
	commandQuip        = "quip"
	commandBlame       = "blame"
	commandAnnounce    = "announce"

	optionUser = "user"
	optionText = "text"

	messageEphemeralAnnounceEmpty  = ":warning: an announcement needs at least a title, body, emoji or image."
	messageEphemeralAnnounceFailed = ":warning: posting the announcement failed."
	messageLeaderboardEmpty        = "no leaderboard yet. start chatting and it will fill up."
	messageNotInVoice              = "you are not in a voice channel right now. join one and your XP tracker wakes up."
)

func cooldownReply(remainingSec int) string {
	return fmt.Sprintf("easy there. try again in %ds.", remainingSec)
}

var levelUpLines = []string{
	"%s leveled up to **Level %d**! still no sleep schedule, but more XP.",
	"%s just hit **Level %d**. the grind is real.",
	"big moves: %s reached **Level %d**.",
	"%s ascended to **Level %d** — braincells sold separately.",
	"%s is now **Level %d**. touch grass reward pending.",
	"the counter says %s made it to **Level %d**.",
}

var goodbyeLines = []string{
	"%s has left the building. the CCTV saw nothing.",
	"%s said 'brb' and meant it this time.",
	"%s vanished from the server like a 3AM snack.",
	"%s dipped. one less voice in the chaos.",
	"%s left... but did they ever truly arrive?",
}

var roastLines = []string{
	"%s, your aim and your typing speed are in the same tier: rusted.",
	"%s joins voice chat just to breathe and disconnect.",
	"%s has more excuses than wins.",
	"%s types 'one more game' like it's a personality.",
	"%s, your KD ratio filed an emotional damage report.",
	"%s peeks like they have plot armor. they do not.",
	"%s has main character energy and side character stats.",
	"%s camped the chat for two hours and contributed one emoji.",
}

var quipIntros = []string{
	"booting up the nonsense generator...",
	"brain ping: 999ms. please wait.",
	"diagnosing the vibe... diagnosis: questionable.",
	"loading today's hot take...",
}

var quipLines = []string{
	"sleep is just a respawn screen.",
	"every round is a warmup round if you believe hard enough.",
	"support main, but only emotionally.",
	"status: online. mindset: offline.",
	"no kills, but an immaculate amount of presence.",
	"mic muted, soul screaming.",
	"strategy? I follow vibes, not calls.",
	"AFK physically, invested spiritually.",
}

var blameLines = []string{
	"today we blame: %s. no appeals.",
	"the wheel of fate points at %s.",
	"%s has been selected as tribute.",
	"blame report filed against %s. based on vibes alone.",
	"all evidence points to %s. we checked twice.",
}

var pingLines = []string{
	"awake. unfortunately. `latency: %dms`",
	"you rang? `lag check: %dms`",
	"alive, barely. `ping: %dms`",
	"present in body, absent in spirit. `latency: %dms`",
}

var noProfileLines = []string{
	"you have 0 XP. certified lurker.",
	"no level, no lore. start typing.",
	"the XP economy has not heard from you.",
	"no profile yet. say something and one appears.",
}

var rankFlavorLines = []string{
	"the numbers don't lie, but they do judge.",
	"leveling up faster than your sleep schedule recovers.",
	"consistent. suspiciously consistent.",
	"side character energy. grind harder.",
	"your XP is climbing. your standards can come too.",
}

var voiceStatusLines = []string{
	"probably overthinking, possibly vibing.",
	"mic muted, presence loud.",
	"background noise main character.",
	"one sentence away from oversharing.",
	"dead silent but refuses to leave.",
}

const helpText = "**kudos bot commands**\n" +
	"`/rank` — your XP and level\n" +
	"`/leaderboard` — the guild's top grinders\n" +
	"`/voicestats` — your current voice session\n" +
	"`/ping` — check the bot's pulse\n" +
	"`/roast [user]` — a precision insult delivery\n" +
	"`/quip` — a random line of chatroom wisdom\n" +
	"`/blame` — somebody has to take the fall\n" +
	"`/announce` — post an announcement (emoji | title | body | image)\n" +
	"\nXP comes from chatting, reacting and hanging out in voice."
