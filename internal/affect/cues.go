package affect

var curiousKeywords = []string{
	"why", "how does", "how do", "what if", "can you explain",
	"i want to know", "i'm curious", "tell me more",
	"what happens when", "is it possible", "could you show",
	"interesting", "fascinating", "cool", "amazing", "awesome",
	"deeper", "more about", "behind", "reason", "wonder",
	"what's the connection", "how is this related", "explore",
	"discover", "learn more", "understand better", "dive into",
	"investigate", "analyze", "examine", "study", "research",
	"brilliant", "incredible", "mind-blowing", "eye-opening",
	"enlightening", "revealing", "insightful", "profound",
	"breakthrough", "aha moment", "eureka", "got it",
	"makes sense", "clicked", "understood", "comprehended",
}

var curiousPatterns = []string{
	`why (?:does|is|do|can|would|will)`,
	`how (?:does|do|can|is|would|will|come)`,
	`what if (?:we|i|you|they|it)`,
	`can you (?:explain|show|tell|demonstrate|illustrate)`,
	`(?:more|deeper|further) (?:about|into|explanation|details)`,
	`(?:connection|relationship|link) (?:between|to|with)`,
	`(?:i|we) (?:wonder|want to know|curious about)`,
	`(?:tell|show) me (?:more|about|how|why)`,
	`(?:what|how) (?:makes|makes this|happens when)`,
	`(?:is it|can it|does it) (?:possible|true|real)`,
	`(?:i|this) (?:love|enjoy|find) (?:learning|exploring|discovering)`,
	`(?:aha|eureka|got it|makes sense|clicked)`,
	`(?:brilliant|amazing|incredible|fascinating|awesome)`,
}

var simpleKeywords = []string{
	"what is", "what are", "what does", "define",
	"meaning", "means", "example", "like what",
	"can you give", "show me", "quick question",
	"just want to know", "simply", "basic", "basically",
	"again", "repeat", "one more time", "once more",
	"in simple words", "easy way", "understand", "clear",
	"straightforward", "plain", "simple terms", "basic idea",
	"main point", "key concept", "core idea", "essence",
	"summary", "overview", "brief", "short", "quick",
	"just", "only", "merely", "simply put", "in short",
	"to sum up", "essentially", "fundamentally",
}

var simplePatterns = []string{
	`what (?:is|are|does|do|was|were)`,
	`(?:define|definition of|defines)`,
	`(?:meaning|means) (?:of|that|this)`,
	`(?:example|examples) (?:of|for|with)`,
	`in simple (?:words|terms|language)`,
	`(?:easy|easier|simplest) (?:way|explanation|method)`,
	`(?:just|only|merely) (?:want|need|asking)`,
	`(?:quick|brief|short) (?:question|explanation|answer)`,
	`(?:can you|could you) (?:give|show|tell|explain)`,
	`(?:one more|once more|again) (?:time|please)`,
	`(?:main|key|core|basic) (?:point|idea|concept)`,
	`(?:in short|basically|essentially|simply put)`,
	`(?:to sum up|in summary|overview)`,
}

var nervousKeywords = []string{
	"confused", "don't understand", "not getting", "don't get",
	"lost", "difficult", "hard", "stuck", "blocked",
	"help", "struggling", "can't figure", "cannot figure",
	"not sure", "unsure", "unclear", "vague", "fuzzy",
	"worried", "frustrated", "complicated", "complex",
	"makes no sense", "don't get it", "doesn't make sense",
	"too hard", "too difficult", "too complex", "overwhelming",
	"impossible", "can't do", "cannot do", "stuck on",
	"trouble", "problem", "issue", "challenge", "struggle",
	"anxious", "nervous", "scared", "afraid",
	"panic", "overwhelmed", "clueless", "blank",
	"mind blank", "drawing blank", "no idea",
	"give up", "quit", "hopeless", "desperate",
}

var nervousPatterns = []string{
	`(?:don't|do not|can't|cannot|won't|will not) (?:understand|get|see|figure|solve)`,
	`(?:i'm|i am|im) (?:confused|lost|stuck|blocked|overwhelmed)`,
	`(?:this is|it's|its) (?:difficult|hard|confusing|complicated|impossible)`,
	`(?:not|no) (?:understanding|getting|seeing|comprehending)`,
	`(?:help|struggling|trouble) (?:with|to|understanding|figuring)`,
	`(?:too|very|really|extremely) (?:hard|difficult|complex|complicated)`,
	`(?:makes|doesn't make|does not make) (?:no|any) sense`,
	`(?:i|we) (?:can't|cannot|unable to) (?:do|figure|solve|understand)`,
	`(?:stuck|blocked|lost) (?:on|with|at)`,
	`(?:mind|brain) (?:blank|goes blank|drawing blank)`,
	`(?:no|zero|absolutely no) (?:idea|clue|understanding)`,
	`(?:give up|quit|impossible|hopeless|desperate)`,
	`(?:anxious|nervous|scared|afraid|worried|panic)`,
}
