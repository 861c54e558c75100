package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconFileJS = "󰌞 " //
	IconBrain  = " "
	IconCheck  = " "
	IconError  = " "
)
