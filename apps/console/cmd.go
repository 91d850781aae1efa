package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/trysabi/sabi-admin/app"
	"github.com/trysabi/sabi-admin/core/catalog"
)

var readPasswordFunc = term.ReadPassword // mockable

// commandLine drives the app from a terminal. It renders whatever view
// models the core derives; all the invariants live below it.
type commandLine struct {
	app *app.App
	in  io.Reader
	out io.Writer

	scanner *bufio.Scanner
	query   catalog.ListQuery
	quit    bool
}

func (cli *commandLine) run(ctx context.Context) error {
	cli.scanner = bufio.NewScanner(cli.in)
	cli.query = catalog.ListQuery{School: catalog.SchoolAll}

	cli.app.Boot(ctx)

	for !cli.quit {
		screen, code := cli.app.Navigator().Current()
		switch screen {
		case app.ScreenLogin:
			if err := cli.loginScreen(ctx); err != nil {
				return err
			}
		case app.ScreenDashboard:
			cli.dashboardScreen(ctx)
		case app.ScreenDetail:
			cli.detailScreen(ctx, code)
		}
	}
	return nil
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, args...)
}

func (cli *commandLine) readLine(prompt string) (string, bool) {
	cli.printf("%s", prompt)
	if !cli.scanner.Scan() {
		cli.quit = true
		return "", false
	}
	return strings.TrimSpace(cli.scanner.Text()), true
}

// Screens

func (cli *commandLine) loginScreen(ctx context.Context) error {
	cli.printf("Admin code (empty to quit): ")
	code, err := readPasswordFunc(syscall.Stdin)
	cli.printf("\n")
	if err != nil {
		return err
	}
	if len(code) == 0 {
		cli.quit = true
		return nil
	}
	if err := cli.app.Login(ctx, string(code)); err != nil {
		cli.printf("✗ %v\n", err)
	}
	return nil
}

func (cli *commandLine) dashboardScreen(ctx context.Context) {
	snap, ok := cli.app.Snapshot()
	if !ok {
		cli.app.Logout()
		return
	}

	stats := snap.Stats()
	cli.printf("\n%d students · %d lessons · %s revenue · %d pending\n",
		stats.StudentCount, stats.LessonCount, stats.RevenueLabel, stats.PendingCount)
	cli.renderStudents(snap)

	line, ok := cli.readLine("> ")
	if !ok {
		return
	}
	cmd, arg := splitCommand(line)

	switch cmd {
	case "", "list":
	case "search":
		cli.query.Search = arg
	case "filter":
		cli.query.School = arg
		if arg == "" {
			cli.query.School = catalog.SchoolAll
		}
	case "referrers":
		cli.renderReferrers(snap)
		cli.pause()
	case "open":
		cli.app.OpenStudent(arg)
	case "add-student":
		cli.addStudent(ctx)
	case "add-lesson":
		cli.addLesson(ctx, arg)
	case "add-payment":
		cli.addPayment(ctx, arg)
	case "add-referrer":
		cli.addReferrer(ctx)
	case "reload":
		if err := cli.app.Reload(ctx); err != nil {
			cli.printf("✗ %v\n", err)
		}
	case "logout":
		cli.app.Logout()
	case "quit":
		cli.quit = true
	default:
		cli.printf("commands: search Q · filter SCHOOL · referrers · open CODE · add-student · add-lesson [CODE] · add-payment [CODE] · add-referrer · reload · logout · quit\n")
	}
}

func (cli *commandLine) detailScreen(ctx context.Context, code string) {
	snap, ok := cli.app.Snapshot()
	if !ok {
		cli.app.Logout()
		return
	}
	detail, found := snap.Detail(code)
	if !found {
		cli.app.Back()
		return
	}

	cli.printf("\n%s — %s\n", detail.Code, detail.Name)
	cli.printf("  %s · %s\n", detail.School, detail.Department)
	cli.printf("  Interests: %s, %s\n", detail.Interest1, detail.Interest2)
	referrer := detail.Referrer
	if referrer == "" {
		referrer = "—"
	}
	cli.printf("  Referred by: %s\n", referrer)
	if detail.WhatsAppLink != "" {
		cli.printf("  Phone: %s (%s)\n", detail.Phone, detail.WhatsAppLink)
	}
	for _, p := range detail.Payments {
		cli.printf("  paid %s on %s\n", catalog.FormatNaira(p.Amount), catalog.FormatShortDate(p.PaidAt))
	}
	cli.printf("  Total paid: %s\n", catalog.FormatNaira(detail.TotalPaid))
	for _, l := range detail.Lessons {
		cli.printf("  lesson %s %s\n", l.Subject, catalog.FormatShortDate(l.DeliveredAt))
	}

	line, ok := cli.readLine("detail> ")
	if !ok {
		return
	}
	cmd, _ := splitCommand(line)
	switch cmd {
	case "add-lesson":
		cli.addLesson(ctx, code)
	case "add-payment":
		cli.addPayment(ctx, code)
	case "logout":
		cli.app.Logout()
	case "quit":
		cli.quit = true
	default:
		cli.app.Back()
	}
}

// Rendering

func (cli *commandLine) renderStudents(snap catalog.Snapshot) {
	rows := snap.StudentList(cli.query)
	if len(rows) == 0 {
		if cli.query.Search != "" {
			cli.printf("No students match your search.\n")
		} else {
			cli.printf("No students yet.\n")
		}
		return
	}
	for _, row := range rows {
		icon := "✅"
		if row.Pending {
			icon = "⏳"
		}
		cli.printf("%s %s  %-20s %s %s\n", icon, row.Code, row.Name, row.School, row.DateLabel)
	}
}

func (cli *commandLine) renderReferrers(snap catalog.Snapshot) {
	rows := snap.ReferrerLeaderboard()
	if len(rows) == 0 {
		cli.printf("No referrers yet.\n")
		return
	}
	for _, r := range rows {
		cli.printf("%s  %d referred · %s earned · %s\n",
			r.CodeName, r.Referred, catalog.FormatNaira(r.Earned), r.OwedLabel)
	}
}

func (cli *commandLine) pause() {
	_, _ = cli.readLine("(enter to continue) ")
}

// Flows

func (cli *commandLine) addStudent(ctx context.Context) {
	flow := cli.app.Flows().AddStudent()

	var ok bool
	if flow.Input.Name, ok = cli.readLine("Name: "); !ok {
		return
	}
	if flow.Input.Phone, ok = cli.readLine("Phone: "); !ok {
		return
	}
	if flow.Input.School, ok = cli.readLine("School (FULAFIA/ATBU/UNIBEN): "); !ok {
		return
	}
	if flow.Input.Department, ok = cli.readLine("Department: "); !ok {
		return
	}
	if flow.Input.Interest1, ok = cli.readLine("Interest 1: "); !ok {
		return
	}
	if flow.Input.Interest2, ok = cli.readLine("Interest 2: "); !ok {
		return
	}
	if flow.Input.Referrer, ok = cli.readLine("Referrer (optional): "); !ok {
		return
	}

	if err := flow.Submit(ctx); err != nil {
		cli.printf("✗ %s\n", flow.ErrorMessage())
		return
	}
	cli.printf("✅ Student added! Code: %s\n--- message ---\n%s\n---\n", flow.Result.Code, flow.Result.Onboarding)
	cli.closeFlow(ctx, flow.Close)
}

func (cli *commandLine) addLesson(ctx context.Context, preselect string) {
	flow := cli.app.Flows().AddLesson(preselect)

	if !cli.pickStudent(flow.Picker) {
		return
	}
	var ok bool
	if flow.Input.Subject, ok = cli.readLine("Subject: "); !ok {
		return
	}
	if flow.Input.CourseCode, ok = cli.readLine("Course code (optional): "); !ok {
		return
	}
	if flow.Input.FolderPath, ok = cli.readLine("Folder path: "); !ok {
		return
	}

	if err := flow.Submit(ctx); err != nil {
		cli.printf("✗ %s\n", flow.ErrorMessage())
		return
	}
	cli.printf("✅ Lesson added!\n--- notification ---\n%s\n---\n", flow.Result.Notification)
	cli.closeFlow(ctx, flow.Close)
}

func (cli *commandLine) addPayment(ctx context.Context, preselect string) {
	flow := cli.app.Flows().AddPayment(preselect)

	if !cli.pickStudent(flow.Picker) {
		return
	}
	var ok bool
	if flow.Input.Amount, ok = cli.readLine("Amount (₦): "); !ok {
		return
	}
	if flow.Input.PDFPages, ok = cli.readLine("PDF pages (optional): "); !ok {
		return
	}
	if flow.Input.Notes, ok = cli.readLine("Notes (optional): "); !ok {
		return
	}

	if err := flow.Submit(ctx); err != nil {
		cli.printf("✗ %s\n", flow.ErrorMessage())
		return
	}
	cli.printf("✅ Payment recorded!\n")
	cli.closeFlow(ctx, flow.Close)
}

func (cli *commandLine) addReferrer(ctx context.Context) {
	flow := cli.app.Flows().AddReferrer()

	var ok bool
	if flow.Input.CodeName, ok = cli.readLine("Code name: "); !ok {
		return
	}
	if flow.Input.FullName, ok = cli.readLine("Full name: "); !ok {
		return
	}
	if flow.Input.Phone, ok = cli.readLine("Phone: "); !ok {
		return
	}
	if flow.Input.School, ok = cli.readLine("School (FULAFIA/ATBU/UNIBEN): "); !ok {
		return
	}

	if err := flow.Submit(ctx); err != nil {
		cli.printf("✗ %s\n", flow.ErrorMessage())
		return
	}
	if flow.Result.Available {
		cli.printf("✅ Referrer added! Share link: %s\n", flow.Result.Link)
	} else {
		cli.printf("✅ Referrer added! (set WhatsApp number in Config sheet first)\n")
	}
	cli.closeFlow(ctx, flow.Close)
}

// pickStudent runs the inline lookup until something is selected. Typing
// filters; typing after selecting clears the selection again.
func (cli *commandLine) pickStudent(picker *catalog.StudentPicker) bool {
	if _, ok := picker.Selection(); ok {
		cli.printf("Student: %s\n", picker.Text())
		return true
	}
	for {
		text, ok := cli.readLine("Search student (code or name, empty to cancel): ")
		if !ok || text == "" {
			return false
		}
		matches := picker.SetText(text)
		if len(matches) == 0 {
			cli.printf("no match\n")
			continue
		}
		if len(matches) == 1 {
			picker.Select(matches[0])
			cli.printf("Student: %s\n", picker.Text())
			return true
		}
		for _, m := range matches {
			cli.printf("  %s\n", m.Label)
		}
	}
}

func (cli *commandLine) closeFlow(ctx context.Context, close func(context.Context) error) {
	if err := close(ctx); err != nil {
		cli.printf("✗ %v\n", err)
	}
}

func splitCommand(line string) (cmd, arg string) {
	parts := strings.SplitN(line, " ", 2)
	cmd = strings.ToLower(parts[0])
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}
	return cmd, arg
}
