package remediation

import "github.com/sentinelstack/sentinel-rca/internal/models"

// defaultEntries is the built-in knowledge base, used when no pack file is
// configured. Entries run most-specific-first; the unknown_error fallback is
// last and matches unconditionally. Keywords are matched case-insensitively
// as substrings of "<service> <message>".
func defaultEntries() []Entry {
	return []Entry{
		{
			Category: "database_connection_error",
			Description: "Database connection pool is exhausted or unavailable. " +
				"The application cannot establish new database connections.",
			Keywords: []string{"mongodb", "connection", "failed", "pool", "timeout", "unavailable", "database", "error"},
			FixSteps: []string{
				"Verify the database service is running: check server logs and cluster status",
				"Check the connection string and credentials in environment variables",
				"Review connection pool size and timeout settings",
				"Check network connectivity to the database instance (firewall, VPN, IP allowlist)",
				"Restart the application service to reset the connection pool",
				"Review slow query logs to identify blocking operations",
				"Increase connection pool size if legitimate high load is expected",
			},
			Priority:                models.PriorityCritical,
			EstimatedResolutionTime: "5-15 minutes",
		},
		{
			Category: "database_auth_failure",
			Description: "Database authentication failed. Credentials are invalid or permissions " +
				"have changed. The application cannot access the database.",
			Keywords: []string{"authentication", "auth", "unauthorized", "forbidden", "credential", "permission", "denied"},
			FixSteps: []string{
				"Verify the database username and password are correct",
				"Check if user permissions have changed or the account was revoked",
				"Verify the database name matches the user's assigned database",
				"Review user roles and ensure read/write permissions are assigned",
				"Rotate credentials if compromise is suspected",
				"Update environment variables and restart the service",
			},
			Priority:                models.PriorityCritical,
			EstimatedResolutionTime: "5-10 minutes",
		},
		{
			Category: "database_query_timeout",
			Description: "Database query exceeded the timeout threshold. Long-running queries " +
				"or missing indexes are blocking operations.",
			Keywords: []string{"timeout", "slow", "query", "execution", "lag", "delay", "database"},
			FixSteps: []string{
				"Identify the slow query from application and database logs",
				"Check the query execution plan",
				"Verify indexes exist on query fields; add compound indexes for multi-field queries",
				"Check database CPU and memory utilization during the timeout",
				"Paginate or archive large collections that have grown too big",
				"Increase the query timeout in application settings if intentional",
			},
			Priority:                models.PriorityHigh,
			EstimatedResolutionTime: "10-30 minutes",
		},
		{
			Category: "api_timeout",
			Description: "API gateway or downstream service did not respond within the timeout " +
				"period. The service is experiencing latency or is unresponsive.",
			Keywords: []string{"timeout", "504", "gateway", "deadline", "timed out", "no response", "unreachable"},
			FixSteps: []string{
				"Check the downstream service status and health endpoint",
				"Review service logs for errors or warnings that indicate failure",
				"Check network latency between services",
				"Review CPU and memory usage of the affected service",
				"Verify the API timeout configuration is appropriate for the operation",
				"Restart the service if it appears hung; scale horizontally under high load",
			},
			Priority:                models.PriorityHigh,
			EstimatedResolutionTime: "5-20 minutes",
		},
		{
			Category: "api_overload",
			Description: "API service received more requests than it can handle. The request " +
				"queue is growing and responses are delayed.",
			Keywords: []string{"overload", "too many", "queue", "congestion", "saturated", "busy", "load"},
			FixSteps: []string{
				"Check current request count and throughput in API metrics",
				"Identify whether the spike is expected or anomalous",
				"Review gateway rate limiting and queue sizes",
				"Scale the service horizontally by adding instances",
				"Temporarily tighten rate limits if the system is at risk",
				"Cache responses for hot endpoints where appropriate",
			},
			Priority:                models.PriorityHigh,
			EstimatedResolutionTime: "10-30 minutes",
		},
		{
			Category: "high_memory_usage",
			Description: "Service is consuming excessive memory. Usage is above threshold and " +
				"may lead to an out-of-memory crash.",
			Keywords: []string{"memory", "oom", "out of memory", "heap", "swap", "resource", "usage"},
			FixSteps: []string{
				"Check current memory usage and limits via container or host metrics",
				"Profile to identify the allocation hot spot",
				"Check for leaks: unfreed objects, unclosed connections",
				"Review query result sizes and cache eviction policies",
				"Restart the service to reclaim memory as a stopgap",
				"Raise the memory limit if load growth is legitimate",
			},
			Priority:                models.PriorityHigh,
			EstimatedResolutionTime: "15-45 minutes",
		},
		{
			Category: "cpu_overload",
			Description: "Service is consuming excessive CPU. Utilization is above threshold " +
				"and may cause latency or degradation.",
			Keywords: []string{"cpu", "processor", "utilization", "overload", "intensive", "compute"},
			FixSteps: []string{
				"Check CPU usage across cores",
				"Identify CPU-intensive operations (batch jobs, tight loops, pathological queries)",
				"Optimize the offending algorithm or query",
				"Reduce batch sizes or processing frequency",
				"Scale horizontally; check for lock contention",
			},
			Priority:                models.PriorityHigh,
			EstimatedResolutionTime: "10-30 minutes",
		},
		{
			Category: "disk_space_critical",
			Description: "Disk space is critically low. The service may fail soon if space is " +
				"not freed, especially database and log storage.",
			Keywords: []string{"disk", "space", "full", "storage", "quota", "fsck", "partition"},
			FixSteps: []string{
				"Check disk usage by mount point: df -h",
				"Identify large files and directories consuming space",
				"Archive or clear application logs and temp files",
				"Remove old container images and unused volumes",
				"Enable log rotation",
				"Increase disk capacity if growth is permanent",
			},
			Priority:                models.PriorityCritical,
			EstimatedResolutionTime: "15-45 minutes",
		},
		{
			Category: "hdfs_block_error",
			Description: "HDFS block read/write failure. A data block is corrupted, inaccessible, " +
				"or under-replicated.",
			Keywords: []string{"hdfs", "block", "corruption", "datanode", "replica", "file", "replication"},
			FixSteps: []string{
				"Run hdfs fsck / to identify bad blocks",
				"Verify all DataNode services are running and healthy",
				"Check DataNode logs for corruption or I/O errors",
				"Rebalance to re-replicate lost blocks; raise the replication factor if needed",
				"Check connectivity between NameNode and DataNodes",
				"Restore from backup if data loss is unrecoverable",
			},
			Priority:                models.PriorityCritical,
			EstimatedResolutionTime: "20-60 minutes",
		},
		{
			Category: "service_crash",
			Description: "Service crashed or became unavailable. The container or process exited " +
				"unexpectedly, likely due to an error, OOM kill, or signal.",
			Keywords: []string{"crash", "crashed", "unavailable", "down", "failed", "exited", "stopped"},
			FixSteps: []string{
				"Check service status: systemctl status or docker ps",
				"Review service logs for the crash reason",
				"Check system logs for resource pressure (memory, disk, CPU)",
				"Verify dependencies are running (database, cache, peer services)",
				"Restart the service; if restart fails, check configuration and startup logs",
				"Review recent deployments or configuration changes",
			},
			Priority:                models.PriorityCritical,
			EstimatedResolutionTime: "5-15 minutes",
		},
		{
			Category: "service_unresponsive",
			Description: "Service is running but not responding to requests. Likely a deadlock, " +
				"infinite loop, or blocking operation.",
			Keywords: []string{"unresponsive", "hanging", "stuck", "deadlock", "blocked", "frozen"},
			FixSteps: []string{
				"Confirm the process is alive and check the health endpoint",
				"Review logs for stuck or blocking operations",
				"Check for database locks or slow queries blocking request handlers",
				"Capture stack traces and look for deadlock patterns",
				"Restart the service if it is permanently stuck",
			},
			Priority:                models.PriorityCritical,
			EstimatedResolutionTime: "10-30 minutes",
		},
		{
			Category: "network_connectivity_issue",
			Description: "Network connectivity problem prevents service communication. DNS, " +
				"routing, or firewall issues may be present.",
			Keywords: []string{"network", "connectivity", "dns", "unreachable", "no route", "connection refused", "host"},
			FixSteps: []string{
				"Test basic connectivity: ping the hostname or IP",
				"Verify DNS resolution: dig or nslookup",
				"Check firewall rules for the required ports",
				"Verify the interface is up and routes are correct",
				"Confirm the service port is listening: ss -tlnp",
				"Review security groups and provider status pages",
			},
			Priority:                models.PriorityCritical,
			EstimatedResolutionTime: "10-25 minutes",
		},
		{
			Category: "dns_failure",
			Description: "DNS resolution failed. The service cannot resolve a hostname, which " +
				"breaks service discovery and inter-service calls.",
			Keywords: []string{"dns", "resolution", "lookup", "nslookup", "hostname", "not found"},
			FixSteps: []string{
				"Verify the DNS server is reachable and responding",
				"Test resolution manually: nslookup <hostname>",
				"Check /etc/resolv.conf for correct resolver IPs",
				"Verify the DNS record exists and points to the right address",
				"Flush DNS caches; restart the resolver if stuck",
			},
			Priority:                models.PriorityHigh,
			EstimatedResolutionTime: "5-15 minutes",
		},
		{
			Category: "config_error",
			Description: "Configuration or environment variable is missing, invalid, or " +
				"malformed. The service cannot start or behaves unexpectedly.",
			Keywords: []string{"config", "configuration", "environment", "variable", "invalid", "missing", "env"},
			FixSteps: []string{
				"Review startup logs for configuration error messages",
				"Verify all required environment variables are set",
				"Validate the configuration file format and value ranges",
				"Check file paths in config exist and are accessible",
				"Review recent configuration changes or deployments",
				"Restart the service after correcting the configuration",
			},
			Priority:                models.PriorityHigh,
			EstimatedResolutionTime: "5-20 minutes",
		},
		{
			Category: "permission_denied",
			Description: "Service lacks permission to access a file, directory, or resource. " +
				"Ownership or permissions are misconfigured.",
			Keywords: []string{"permission", "denied", "access", "forbidden", "chmod", "ownership", "readable"},
			FixSteps: []string{
				"Check file and directory permissions: ls -l",
				"Verify the service user matches the expected owner",
				"Grant access with chmod/chown as appropriate",
				"Check SELinux or AppArmor policies if enabled",
				"Check mount permissions for mounted volumes",
				"Restart the service after permission changes",
			},
			Priority:                models.PriorityMedium,
			EstimatedResolutionTime: "5-15 minutes",
		},
		{
			Category: FallbackCategory,
			Description: "Unknown or uncategorized error. Insufficient information to provide " +
				"specific remediation; general troubleshooting steps recommended.",
			Keywords: nil,
			FixSteps: []string{
				"Review complete service logs for additional error context",
				"Check the service health endpoint and status",
				"Verify all dependencies are running and healthy",
				"Check recent deployments or configuration changes",
				"Review system resource usage (CPU, memory, disk)",
				"Enable debug logging and correlate with other services' logs",
				"Restart the service as a temporary mitigation",
				"Escalate if the issue persists",
			},
			Priority:                models.PriorityMedium,
			EstimatedResolutionTime: "15-45 minutes",
		},
	}
}
