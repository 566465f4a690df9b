package main

var cli struct {
	Verbose bool   `help:"Prints debug output by default"`
	Profile bool   `help:"Output a pprof profile"`
	Config  string `help:"Path to a config file, instead of searching the default locations" type:"path"`

	Instructor struct {
		Preset string `help:"Lesson preset (HCL) to start from" type:"existingfile"`
		Listen string `help:"Address to host the sync hub on (defaults to sync.listen)"`
		URL    string `help:"Connect to an existing hub instead of hosting one" name:"url"`
	} `cmd:"" help:"Starts the instructor TUI and publishes settings to students"`

	Student struct {
		URL       string `help:"Sync hub to follow (defaults to sync.url)" name:"url"`
		Session   string `help:"Session file (defaults to session.path)"`
		ExportDir string `help:"Directory for exported screenshots" default:"." type:"path"`
	} `cmd:"" help:"Starts the student TUI"`

	Serve struct {
		Listen string `help:"Address to listen on (defaults to sync.listen)"`
		Preset string `help:"Lesson preset (HCL) to publish on start" type:"existingfile"`
	} `cmd:"" help:"Runs a standalone sync hub"`

	Export struct {
		Preset  string `help:"Lesson preset (HCL) with the shared settings" type:"existingfile"`
		Session string `help:"Session file with the student's view (defaults to session.path)"`
		Output  string `help:"PNG file to write" short:"o" default:"scope.png" type:"path"`
	} `cmd:"" help:"Renders a student's screen to a PNG without the TUI"`

	Check struct {
		Preset  string `help:"Lesson preset (HCL) with the shared settings" type:"existingfile"`
		Session string `help:"Session file with the student's measurements (defaults to session.path)"`
	} `cmd:"" help:"Grades the measurements in a session file and exits non-zero on failure"`
}
