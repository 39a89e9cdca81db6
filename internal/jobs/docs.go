// Package jobs provides scheduled background tasks for the dispatch service.
//
// Jobs are built on github.com/robfig/cron/v3 and managed through JobManager:
//
//	audit := jobs.NewQueueAuditJob("@every 5m", verifyHandler, compactHandler, metrics, logger)
//	manager := jobs.NewJobManager(audit)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// # Queue audit
//
// QueueAuditJob reads the ranked orders, records the queue length and
// renumbers the queue when gaps or duplicate ranks are found. Schedules accept
// five or six cron fields as well as descriptors. An empty schedule in the
// configuration leaves the job out of the manager.
package jobs
